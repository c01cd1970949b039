// Package settings loads the site settings document that drives every page
// and exposes it read-only.
package settings

// Document is the whole settings document. Every field is optional; Defaults
// fills whatever the source leaves out.
type Document struct {
	SiteTitle  string    `json:"siteTitle" yaml:"siteTitle"`
	SiteURL    string    `json:"siteUrl" yaml:"siteUrl"`
	Logo       string    `json:"logo" yaml:"logo"`
	Navigation []Link    `json:"navigation" yaml:"navigation"`
	Theme      Theme     `json:"theme" yaml:"theme"`
	Profile    Profile   `json:"profile" yaml:"profile"`
	Home       Home      `json:"home" yaml:"home"`
	About      About     `json:"about" yaml:"about"`
	Portfolio  Portfolio `json:"portfolio" yaml:"portfolio"`
	Blog       Blog      `json:"blog" yaml:"blog"`
	Contact    Contact   `json:"contact" yaml:"contact"`
	Footer     Footer    `json:"footer" yaml:"footer"`
}

// Link is a labelled href used by navigation and footer lists.
type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

// Theme configures the initial visual mode. Locked hides the toggle.
type Theme struct {
	Default string `json:"default" yaml:"default"`
	Locked  bool   `json:"locked" yaml:"locked"`
}

type Profile struct {
	FullName     string `json:"fullName" yaml:"fullName"`
	Title        string `json:"title" yaml:"title"`
	Email        string `json:"email" yaml:"email"`
	Phone        string `json:"phone" yaml:"phone"`
	ProfileImage string `json:"profileImage" yaml:"profileImage"`
	BannerImage  string `json:"bannerImage" yaml:"bannerImage"`
}

type Home struct {
	HeroTagline    string        `json:"heroTagline" yaml:"heroTagline"`
	HeroHeading    string        `json:"heroHeading" yaml:"heroHeading"`
	HeroSubheading string        `json:"heroSubheading" yaml:"heroSubheading"`
	HeroButtons    []Button      `json:"heroButtons" yaml:"heroButtons"`
	Stats          []Stat        `json:"stats" yaml:"stats"`
	Skills         []Skill       `json:"skills" yaml:"skills"`
	Achievements   []Achievement `json:"achievements" yaml:"achievements"`
}

// Button is a call-to-action link. Variant is one of primary, secondary,
// outline or ghost.
type Button struct {
	Label   string `json:"label" yaml:"label"`
	Href    string `json:"href" yaml:"href"`
	Variant string `json:"variant" yaml:"variant"`
}

type Stat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Skill struct {
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

type Achievement struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type About struct {
	PersonalStory  Story         `json:"personalStory" yaml:"personalStory"`
	WorkExperience JobList       `json:"workExperience" yaml:"workExperience"`
	Education      EducationList `json:"education" yaml:"education"`
	ResumeFileName string        `json:"resumeFileName" yaml:"resumeFileName"`
}

type Story struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

type JobList struct {
	Title string `json:"title" yaml:"title"`
	Items []Job  `json:"items" yaml:"items"`
}

type Job struct {
	Position    string `json:"position" yaml:"position"`
	Company     string `json:"company" yaml:"company"`
	Duration    string `json:"duration" yaml:"duration"`
	Description string `json:"description" yaml:"description"`
}

type EducationList struct {
	Title string      `json:"title" yaml:"title"`
	Items []Education `json:"items" yaml:"items"`
}

type Education struct {
	Degree string `json:"degree" yaml:"degree"`
	School string `json:"school" yaml:"school"`
	Year   string `json:"year" yaml:"year"`
}

type Portfolio struct {
	PageTitle    string    `json:"pageTitle" yaml:"pageTitle"`
	PageSubtitle string    `json:"pageSubtitle" yaml:"pageSubtitle"`
	Projects     []Project `json:"projects" yaml:"projects"`
}

type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image" yaml:"image"`
	Tags        []string `json:"tags" yaml:"tags"`
	GithubURL   string   `json:"githubUrl" yaml:"githubUrl"`
	LiveURL     string   `json:"liveUrl" yaml:"liveUrl"`
}

type Blog struct {
	PageTitle    string `json:"pageTitle" yaml:"pageTitle"`
	PageSubtitle string `json:"pageSubtitle" yaml:"pageSubtitle"`
	Posts        []Post `json:"posts" yaml:"posts"`
}

// Post is a blog post. Content is Markdown.
type Post struct {
	Slug    string   `json:"slug" yaml:"slug"`
	Title   string   `json:"title" yaml:"title"`
	Date    string   `json:"date" yaml:"date"`
	Content string   `json:"content" yaml:"content"`
	Image   string   `json:"image" yaml:"image"`
	Tags    []string `json:"tags" yaml:"tags"`
	Excerpt string   `json:"excerpt" yaml:"excerpt"`
}

// Link returns the canonical path of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Contact configures the contact page. Endpoint is the third-party form
// handler submissions are relayed to.
type Contact struct {
	PageTitle    string `json:"pageTitle" yaml:"pageTitle"`
	PageSubtitle string `json:"pageSubtitle" yaml:"pageSubtitle"`
	Location     string `json:"location" yaml:"location"`
	Phone        string `json:"phone" yaml:"phone"`
	Endpoint     string `json:"endpoint" yaml:"endpoint"`
}

type Footer struct {
	Description string       `json:"description" yaml:"description"`
	Location    string       `json:"location" yaml:"location"`
	Email       string       `json:"email" yaml:"email"`
	SocialLinks []SocialLink `json:"socialLinks" yaml:"socialLinks"`
	QuickLinks  []Link       `json:"quickLinks" yaml:"quickLinks"`
}

type SocialLink struct {
	Icon  string `json:"icon" yaml:"icon"`
	Href  string `json:"href" yaml:"href"`
	Label string `json:"label" yaml:"label"`
}
