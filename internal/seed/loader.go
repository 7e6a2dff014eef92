package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/company-site/internal/models"
)

// Fixtures is the content read from a seed directory
type Fixtures struct {
	Services   []models.Service
	Projects   []models.Project
	Careers    []models.Career
	HeroImages []models.HeroImage
	Posts      []models.Post
	Settings   *models.SettingsPatch
}

// Load reads fixtures from fsys. Every file is optional.
func Load(fsys fs.FS) (*Fixtures, error) {
	fx := &Fixtures{}

	var services []serviceFile
	if err := loadYAML(fsys, "services.yaml", &services); err != nil {
		return nil, err
	}
	for _, s := range services {
		fx.Services = append(fx.Services, models.Service{
			Slug:      s.Slug,
			Title:     s.Title,
			ShortDesc: s.ShortDesc,
			LongDesc:  s.LongDesc,
			Details:   s.Details,
			ImageURL:  s.ImageURL,
		})
	}

	var projects []projectFile
	if err := loadYAML(fsys, "portfolio.yaml", &projects); err != nil {
		return nil, err
	}
	for _, p := range projects {
		fx.Projects = append(fx.Projects, models.Project{
			Title:       p.Title,
			Category:    p.Category,
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
	}

	var careers []careerFile
	if err := loadYAML(fsys, "careers.yaml", &careers); err != nil {
		return nil, err
	}
	for _, c := range careers {
		status := models.Status(c.Status)
		if status == "" {
			status = models.StatusPublished
		}
		fx.Careers = append(fx.Careers, models.Career{
			Type:                models.CareerType(c.Type),
			Title:               c.Title,
			Summary:             c.Summary,
			Description:         c.Description,
			Status:              status,
			ApplicationEmail:    c.ApplicationEmail,
			ApplicationWhatsapp: c.ApplicationWhatsapp,
			Attributes:          c.Attributes,
		})
	}

	var hero []heroFile
	if err := loadYAML(fsys, "hero.yaml", &hero); err != nil {
		return nil, err
	}
	for i, h := range hero {
		active := true
		if h.Active != nil {
			active = *h.Active
		}
		order := i
		if h.Order != nil {
			order = *h.Order
		}
		fx.HeroImages = append(fx.HeroImages, models.HeroImage{
			Title:       h.Title,
			Description: h.Description,
			ImageURL:    h.ImageURL,
			IsActive:    active,
			SortOrder:   order,
		})
	}

	var settings models.SettingsPatch
	found, err := loadOptional(fsys, "settings.yaml", func(data []byte) error {
		var sf settingsFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return err
		}
		settings = sf.patch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found {
		fx.Settings = &settings
	}

	posts, err := loadPosts(fsys, "posts")
	if err != nil {
		return nil, err
	}
	fx.Posts = posts

	slog.Info("seed fixtures loaded",
		"services", len(fx.Services),
		"projects", len(fx.Projects),
		"careers", len(fx.Careers),
		"hero_images", len(fx.HeroImages),
		"posts", len(fx.Posts),
		"settings", fx.Settings != nil,
	)
	return fx, nil
}

func loadYAML(fsys fs.FS, name string, dest any) error {
	_, err := loadOptional(fsys, name, func(data []byte) error {
		return yaml.Unmarshal(data, dest)
	})
	return err
}

// loadOptional passes the content of name to parse. A missing file is not
// an error.
func loadOptional(fsys fs.FS, name string, parse func([]byte) error) (bool, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := parse(data); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// loadPosts reads every markdown file in dir. Front matter carries the
// metadata and the body becomes the post content.
func loadPosts(fsys fs.FS, dir string) ([]models.Post, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var posts []models.Post
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(path.Ext(entry.Name())) != ".md" {
			continue
		}

		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var meta postMatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
		if err != nil {
			return nil, fmt.Errorf("failed to parse front matter in %s: %w", name, err)
		}

		title := meta.Title
		if title == "" {
			base := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
			title = strings.ReplaceAll(base, "-", " ")
		}

		date, err := parseDate(meta.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date in %s: %w", name, err)
		}

		status := models.Status(meta.Status)
		if status == "" {
			status = models.StatusPublished
		}

		posts = append(posts, models.Post{
			Title:    title,
			Content:  strings.TrimSpace(string(body)),
			Status:   status,
			Category: meta.Category,
			Author:   meta.Author,
			Date:     date,
		})
	}
	return posts, nil
}

var dateFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// parseDate accepts the common front matter date layouts. Empty is zero.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q, use YYYY-MM-DD or RFC3339", s)
}

// --- fixture file structs ---

type serviceFile struct {
	Slug      string   `yaml:"slug"`
	Title     string   `yaml:"title"`
	ShortDesc string   `yaml:"short_desc"`
	LongDesc  string   `yaml:"long_desc"`
	Details   []string `yaml:"details"`
	ImageURL  string   `yaml:"image_url"`
}

type projectFile struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

type careerFile struct {
	Type                string            `yaml:"type"`
	Title               string            `yaml:"title"`
	Summary             string            `yaml:"summary"`
	Description         string            `yaml:"description"`
	Status              string            `yaml:"status"`
	ApplicationEmail    string            `yaml:"application_email"`
	ApplicationWhatsapp string            `yaml:"application_whatsapp"`
	Attributes          map[string]string `yaml:"attributes"`
}

type heroFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Active      *bool  `yaml:"active"`
	Order       *int   `yaml:"order"`
}

type settingsFile struct {
	CompanyName string `yaml:"company_name"`
	Tagline     string `yaml:"tagline"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Whatsapp    string `yaml:"whatsapp"`
	Address     string `yaml:"address"`
	Facebook    string `yaml:"facebook"`
	Twitter     string `yaml:"twitter"`
	LinkedIn    string `yaml:"linkedin"`
	Instagram   string `yaml:"instagram"`
}

// patch sets only the fields present in the file
func (f settingsFile) patch() models.SettingsPatch {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return models.SettingsPatch{
		CompanyName: opt(f.CompanyName),
		Tagline:     opt(f.Tagline),
		Email:       opt(f.Email),
		Phone:       opt(f.Phone),
		Whatsapp:    opt(f.Whatsapp),
		Address:     opt(f.Address),
		Facebook:    opt(f.Facebook),
		Twitter:     opt(f.Twitter),
		LinkedIn:    opt(f.LinkedIn),
		Instagram:   opt(f.Instagram),
	}
}

type postMatter struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	Status   string `yaml:"status"`
}
