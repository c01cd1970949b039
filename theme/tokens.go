package theme

var lightColors = map[string]string{
	"color-bg":              "#ffffff",
	"color-bg-secondary":    "#f7f7f8",
	"color-text":            "#111827",
	"color-text-secondary":  "#4b5563",
	"color-border":          "#e5e7eb",
	"color-primary":         "#2563eb",
	"color-primary-light":   "#dbeafe",
	"color-primary-dark":    "#1d4ed8",
	"color-secondary":       "#7c3aed",
	"color-secondary-light": "#ede9fe",
	"color-accent":          "#0d9488",
	"color-accent-light":    "#ccfbf1",
	"color-success":         "#15803d",
	"color-success-light":   "#dcfce7",
	"color-error":           "#b91c1c",
	"color-error-light":     "#fee2e2",
	"shadow-sm":             "0 1px 2px rgba(17, 24, 39, 0.06)",
	"shadow-md":             "0 4px 12px rgba(17, 24, 39, 0.08)",
	"shadow-lg":             "0 12px 32px rgba(17, 24, 39, 0.12)",
}

var darkColors = map[string]string{
	"color-bg":              "#0b0f17",
	"color-bg-secondary":    "#131a26",
	"color-text":            "#f3f4f6",
	"color-text-secondary":  "#9ca3af",
	"color-border":          "#1f2937",
	"color-primary":         "#60a5fa",
	"color-primary-light":   "#1e3a5f",
	"color-primary-dark":    "#3b82f6",
	"color-secondary":       "#a78bfa",
	"color-secondary-light": "#2e1f5e",
	"color-accent":          "#2dd4bf",
	"color-accent-light":    "#134e4a",
	"color-success":         "#4ade80",
	"color-success-light":   "#14532d",
	"color-error":           "#f87171",
	"color-error-light":     "#450a0a",
	"shadow-sm":             "0 1px 2px rgba(0, 0, 0, 0.4)",
	"shadow-md":             "0 4px 12px rgba(0, 0, 0, 0.5)",
	"shadow-lg":             "0 12px 32px rgba(0, 0, 0, 0.6)",
}

// Spacing, radius and timing do not change between modes.
var sharedTokens = map[string]string{
	"spacing-xs":      "4px",
	"spacing-sm":      "8px",
	"spacing-md":      "16px",
	"spacing-lg":      "32px",
	"spacing-xl":      "64px",
	"radius-sm":       "4px",
	"radius-md":       "8px",
	"radius-lg":       "16px",
	"transition-fast": "150ms ease",
	"transition-base": "250ms ease",
}
