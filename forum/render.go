package forum

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// cardView is the template-friendly projection of a Post.
type cardView struct {
	Post      Post
	Liked     bool
	CreatedAt string
}

var postCardTmpl = template.Must(template.New("card").Parse(
	`<article class="post-card" data-slug="{{.Post.Slug}}">
<header><span class="category-tag">{{.Post.CategoryName}}</span>
<h2><a href="/forum/posts/{{.Post.Slug}}">{{.Post.Title}}</a></h2></header>
<p class="excerpt">{{.Post.Excerpt}}</p>
<footer class="meta">{{.Post.AuthorName}} &mdash; {{.CreatedAt}}
<button class="like-btn{{if .Liked}} liked{{end}}" data-slug="{{.Post.Slug}}">&#10084; <span class="like-count">{{.Post.LikeCount}}</span></button>
</footer>
</article>`))

var commentTmpl = template.Must(template.New("comment").Parse(
	`<div class="comment"><p>{{.Comment.Body}}</p><div class="meta">{{.Comment.AuthorName}} &mdash; {{.CreatedAt}}</div></div>`))

// EmptyPartial is the fragment returned when a partial request matches
// nothing (including pagination overrun).
const EmptyPartial = "<p class='muted'>Tidak ada data.</p>"

// RenderCard renders the card fragment for one post.
func RenderCard(p Post, liked bool) (string, error) {
	var b strings.Builder
	err := postCardTmpl.Execute(&b, cardView{
		Post:      p,
		Liked:     liked,
		CreatedAt: formatTime(p.CreatedAt),
	})
	if err != nil {
		return "", fmt.Errorf("forum: render card: %w", err)
	}
	return b.String(), nil
}

// RenderCards concatenates one card fragment per post in result order, or
// returns EmptyPartial when there are none.
func RenderCards(posts []Post, likedIDs map[string]bool) (string, error) {
	if len(posts) == 0 {
		return EmptyPartial, nil
	}
	var b strings.Builder
	for i, p := range posts {
		if i > 0 {
			b.WriteByte('\n')
		}
		card, err := RenderCard(p, likedIDs[p.ID])
		if err != nil {
			return "", err
		}
		b.WriteString(card)
	}
	return b.String(), nil
}

// RenderComment renders the fragment for one comment.
func RenderComment(c Comment) (string, error) {
	var b strings.Builder
	err := commentTmpl.Execute(&b, struct {
		Comment   Comment
		CreatedAt string
	}{c, formatTime(c.CreatedAt)})
	if err != nil {
		return "", fmt.Errorf("forum: render comment: %w", err)
	}
	return b.String(), nil
}

var listPageTmpl = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Forum &mdash; Garuda Spot</title></head><body>
<h1>Forum</h1>
<nav class="categories">
<a href="/forum"{{if not .FilterActive}} class="active"{{end}}>All</a>
{{- range .Categories}}
<a href="/forum?category={{.Slug}}"{{if eq .Slug $.ActiveCategory}} class="active"{{end}}>{{.Name}}</a>
{{- end}}
</nav>
<form method="get" action="/forum" class="search">
<input type="hidden" name="category" value="{{.ActiveCategory}}">
<input type="search" name="q" value="{{.Query}}" placeholder="Cari diskusi...">
</form>
<section id="post-list" data-page="{{.Page}}" data-has-next="{{.HasNext}}">
{{.Cards}}
</section>
{{- if .HasNext}}
<button id="load-more" data-next="{{.NextPage}}">Muat lebih banyak</button>
{{- end}}
</body></html>`))

// PageData is the full-page rendering context: the current window plus the
// filter widget state needed to re-render the controls.
type PageData struct {
	Categories     []Category
	ActiveCategory string
	FilterActive   bool
	Query          string
	Cards          template.HTML
	Page           int
	NextPage       int
	HasNext        bool
}

// RenderPage renders the full forum listing page.
func RenderPage(data PageData) (string, error) {
	var b strings.Builder
	if err := listPageTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("forum: render page: %w", err)
	}
	return b.String(), nil
}

var detailPageTmpl = template.Must(template.New("detail").Parse(`<!DOCTYPE html>
<html lang="id"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Post.Title}} &mdash; Garuda Spot</title></head><body>
<article class="post">
<h1>{{.Post.Title}}</h1>
<div class="meta">{{.Post.CategoryName}} &mdash; {{.Post.AuthorName}} &mdash; {{.CreatedAt}}</div>
<div class="body">{{.Body}}</div>
</article>
<section id="comments">{{.Comments}}</section>
</body></html>`))

// RenderDetail renders the post detail page with its comment fragments. The
// body was sanitized by the UGC policy on write, so it renders unescaped.
func RenderDetail(p *Post, comments template.HTML) (string, error) {
	var b strings.Builder
	err := detailPageTmpl.Execute(&b, struct {
		Post      *Post
		Body      template.HTML
		CreatedAt string
		Comments  template.HTML
	}{p, template.HTML(p.Body), formatTime(p.CreatedAt), comments})
	if err != nil {
		return "", fmt.Errorf("forum: render detail: %w", err)
	}
	return b.String(), nil
}

func formatTime(unixMilli int64) string {
	return time.UnixMilli(unixMilli).Format("2006-01-02 15:04")
}
