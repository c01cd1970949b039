package settings

import "slices"

// Clone returns a deep copy of d. Providers hand out clones so that no
// caller can change what another caller sees.
func (d Document) Clone() Document {
	out := d
	out.Navigation = slices.Clone(d.Navigation)
	out.Home.HeroButtons = slices.Clone(d.Home.HeroButtons)
	out.Home.Stats = slices.Clone(d.Home.Stats)
	out.Home.Skills = slices.Clone(d.Home.Skills)
	out.Home.Achievements = slices.Clone(d.Home.Achievements)
	out.About.WorkExperience.Items = slices.Clone(d.About.WorkExperience.Items)
	out.About.Education.Items = slices.Clone(d.About.Education.Items)
	out.Footer.SocialLinks = slices.Clone(d.Footer.SocialLinks)
	out.Footer.QuickLinks = slices.Clone(d.Footer.QuickLinks)

	if d.Portfolio.Projects != nil {
		out.Portfolio.Projects = make([]Project, len(d.Portfolio.Projects))
		for i, p := range d.Portfolio.Projects {
			p.Tags = slices.Clone(p.Tags)
			out.Portfolio.Projects[i] = p
		}
	}
	if d.Blog.Posts != nil {
		out.Blog.Posts = make([]Post, len(d.Blog.Posts))
		for i, p := range d.Blog.Posts {
			p.Tags = slices.Clone(p.Tags)
			out.Blog.Posts[i] = p
		}
	}
	return out
}
