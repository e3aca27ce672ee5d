package main

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "base.html"

// views holds every parsed page plus the shared layout. Pages render first
// and are handed to the layout as its pre-rendered "content".
type views struct {
	layout *exec.Template
	pages  map[string]*exec.Template
}

func loadViews() (*views, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	v := &views{pages: make(map[string]*exec.Template)}
	for _, e := range entries {
		src, err := templateFS.ReadFile(path.Join("templates", e.Name()))
		if err != nil {
			return nil, err
		}
		tpl, err := gonja.FromBytes(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if e.Name() == layoutTemplate {
			v.layout = tpl
			continue
		}
		v.pages[e.Name()] = tpl
	}
	if v.layout == nil {
		return nil, fmt.Errorf("missing %s", layoutTemplate)
	}
	return v, nil
}

func (v *views) render(page string, data map[string]any) (string, error) {
	tpl, ok := v.pages[page]
	if !ok {
		return "", fmt.Errorf("unknown template %q", page)
	}
	content, err := tpl.ExecuteToString(exec.NewContext(maps.Clone(data)))
	if err != nil {
		return "", fmt.Errorf("execute %s: %w", page, err)
	}
	outer := maps.Clone(data)
	outer["content"] = content
	return v.layout.ExecuteToString(exec.NewContext(outer))
}

// --- Template values ---

func userView(u *User) map[string]any {
	return map[string]any{
		"id":               u.ID,
		"username":         u.Username,
		"email":            u.Email,
		"image_url":        u.ImageURL,
		"header_image_url": u.HeaderImageURL,
		"bio":              u.Bio,
		"location":         u.Location,
	}
}

func usersView(users []User) []map[string]any {
	out := make([]map[string]any, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	return out
}

func messageView(m *Message, liked map[int64]bool) map[string]any {
	return map[string]any{
		"id":        m.ID,
		"text":      m.Text,
		"date":      m.Timestamp.Format("02 January 2006"),
		"ago":       humanize.Time(m.Timestamp),
		"user_id":   m.UserID,
		"username":  m.Username,
		"image_url": m.ImageURL,
		"liked":     liked[m.ID],
	}
}

func messagesView(messages []Message, liked map[int64]bool) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for i := range messages {
		out = append(out, messageView(&messages[i], liked))
	}
	return out
}
