package service

import (
	"io"

	"blog/app/models"
	"blog/app/services"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document accepted by the load command. Posts refer to
// authors by email and to tags by caption, both declared in the same file.
type Fixtures struct {
	Authors []*models.Author `yaml:"authors"`
	Tags    []*models.Tag    `yaml:"tags"`
	Posts   []*postFixture   `yaml:"posts"`
}

type postFixture struct {
	models.Post `yaml:",inline"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
}

// LoadSummary counts what a fixture load created.
type LoadSummary struct {
	Authors int
	Tags    int
	Posts   int
}

// LoadFixtures decodes fixtures from r and creates them through posts in
// declaration order. It stops at the first failure.
func LoadFixtures(r io.Reader, posts *services.PostService) (LoadSummary, error) {
	var summary LoadSummary
	var fx Fixtures
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return summary, errors.Wrap(err, "decode fixtures")
	}

	authors := make(map[string]*models.Author, len(fx.Authors))
	for _, author := range fx.Authors {
		if err := posts.CreateAuthor(author); err != nil {
			return summary, err
		}
		authors[author.Email] = author
		summary.Authors++
	}

	tags := make(map[string]*models.Tag, len(fx.Tags))
	for _, tag := range fx.Tags {
		if err := posts.CreateTag(tag); err != nil {
			return summary, err
		}
		tags[tag.Caption] = tag
		summary.Tags++
	}

	for _, pf := range fx.Posts {
		post := pf.Post
		if pf.Author != "" {
			author, ok := authors[pf.Author]
			if !ok {
				return summary, errors.Errorf("post %q: unknown author %q", post.Slug, pf.Author)
			}
			post.SetAuthor(author)
		}
		for _, caption := range pf.Tags {
			tag, ok := tags[caption]
			if !ok {
				return summary, errors.Errorf("post %q: unknown tag %q", post.Slug, caption)
			}
			post.AddTag(tag.ID)
		}
		if err := posts.CreatePost(&post); err != nil {
			return summary, err
		}
		summary.Posts++
	}
	return summary, nil
}
