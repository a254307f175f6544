package forms

import "strings"

type Comment struct {
	Content string `json:"content" validate:"min=1,max=5000"`
}

func (c *Comment) Validate() error {
	c.Content = strings.TrimSpace(c.Content)
	return check(c)
}

type Page struct {
	Path string `json:"path" validate:"min=1,max=2048,startswith=/"`
}

func (p *Page) Validate() error {
	p.Path = strings.TrimSpace(p.Path)
	return check(p)
}

type PageClosed struct {
	Closed bool `json:"closed"`
}
