// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blog"
)

// pageWriter accumulates the first write error so views read top to bottom.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func layout(title string, body func(p *pageWriter)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		p.text(title)
		p.raw(` | Inkpost</title></head><body><main>`)
		body(p)
		p.raw(`</main></body></html>`)
		return p.err
	})
}

// LoginPage renders the sign-in form. email refills the field; message is
// shown above the form when non-empty.
func LoginPage(email, message string) templ.Component {
	return layout("Login", func(p *pageWriter) {
		p.raw(`<h1>Login</h1>`)
		if message != "" {
			p.raw(`<p class="error" role="alert">`)
			p.text(message)
			p.raw(`</p>`)
		}
		p.raw(`<form method="post" action="` + PathLogin + `">`)
		p.raw(`<label>Email <input type="email" name="email" value="`)
		p.text(email)
		p.raw(`" required></label>`)
		p.raw(`<label>Password <input type="password" name="password" required></label>`)
		p.raw(`<button type="submit">Log in</button></form>`)
	})
}

// DashboardPage renders the signed-in view. stats may be nil.
func DashboardPage(id auth.Identity, stats *blog.Stats) templ.Component {
	return layout("Dashboard", func(p *pageWriter) {
		p.raw(`<h1>Dashboard</h1><p>Signed in as <strong>`)
		p.text(id.Email)
		p.raw(`</strong></p>`)

		if stats != nil {
			p.raw(`<ul class="stats">`)
			p.raw(fmt.Sprintf(`<li>Posts: %d</li><li>Views: %d</li><li>Likes: %d</li>`,
				stats.TotalPosts, stats.TotalViews, stats.TotalLikes))
			p.raw(`</ul>`)
			if len(stats.TopPosts) > 0 {
				p.raw(`<h2>Top posts</h2><ol class="top-posts">`)
				for _, post := range stats.TopPosts {
					p.raw(`<li><a href="/blogs/` + strconv.FormatInt(post.ID, 10) + `">`)
					p.text(post.Title)
					p.raw(`</a> (` + strconv.FormatInt(post.Views, 10) + ` views)</li>`)
				}
				p.raw(`</ol>`)
			}
		}

		p.raw(`<form method="post" action="` + PathLogout + `"><button type="submit">Log out</button></form>`)
	})
}

// ErrorPage renders a generic failure page with no error detail.
func ErrorPage(title string) templ.Component {
	return layout(title, func(p *pageWriter) {
		p.raw(`<h1>`)
		p.text(title)
		p.raw(`</h1><p>Something went wrong. Please try again later.</p>`)
	})
}
