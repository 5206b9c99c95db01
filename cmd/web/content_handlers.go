package main

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"speedwaymoto.fr/storefront-web/internal/cms"
	mw "speedwaymoto.fr/storefront-web/internal/middleware"
)

const maxContactMessage = 4000

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// contactForm is the submitted contact form.
type contactForm struct {
	Name    string
	Email   string
	Message string
}

// validate returns a message key per invalid field.
func (f contactForm) validate() map[string]string {
	errs := map[string]string{}
	if f.Name == "" {
		errs["name"] = "contact.error.name"
	}
	if f.Email == "" {
		errs["email"] = "contact.error.email_required"
	} else if !emailPattern.MatchString(f.Email) {
		errs["email"] = "contact.error.email_invalid"
	}
	if f.Message == "" {
		errs["message"] = "contact.error.message"
	} else if utf8.RuneCountInString(f.Message) > maxContactMessage {
		errs["message"] = "contact.error.message_length"
	}
	return errs
}

// contactView backs the contact page and its form fragment.
type contactView struct {
	Lang      string
	Page      *cms.ContentPage
	Form      contactForm
	Errors    map[string]string
	Sent      bool
	CSRFToken string
}

// ContactHandler renders the contact page.
func ContactHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	cv := contactView{Lang: lang, CSRFToken: mw.CSRFToken(r)}
	if page, err := contentPages.Get("contact", lang); err == nil {
		cv.Page = &page
	} else if !errors.Is(err, cms.ErrNotFound) {
		log.Ctx(r.Context()).Error().Err(err).Msg("load contact page")
	}
	renderContact(w, r, http.StatusOK, cv)
}

// ContactSubmitHandler validates the contact form. Messages are acknowledged
// only; nothing is sent.
func ContactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := contactForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
	cv := contactView{Lang: lang, Form: form, Errors: form.validate(), CSRFToken: mw.CSRFToken(r)}
	htmx := mw.IsHTMX(r.Context())

	if len(cv.Errors) > 0 {
		if htmx {
			// htmx only swaps 2xx responses
			renderFragment(w, r, http.StatusOK, "contact_form", cv)
			return
		}
		if page, err := contentPages.Get("contact", lang); err == nil {
			cv.Page = &page
		}
		renderContact(w, r, http.StatusUnprocessableEntity, cv)
		return
	}

	log.Ctx(r.Context()).Info().
		Int("message_length", utf8.RuneCountInString(form.Message)).
		Msg("contact message received")

	if htmx {
		cv.Sent = true
		cv.Form = contactForm{}
		renderFragment(w, r, http.StatusOK, "contact_form", cv)
		return
	}
	mw.GetSession(r).SetFlash("contact.sent")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func renderContact(w http.ResponseWriter, r *http.Request, status int, cv contactView) {
	title := i18nOrDefault(cv.Lang, "contact.title", "Contact")
	desc := ""
	if cv.Page != nil {
		title = cv.Page.Title
		desc = cv.Page.Summary
	}
	vm := newPageData(r, title, desc)
	vm.Flash = mw.GetSession(r).TakeFlash()
	vm.Contact = cv
	renderPage(w, r, status, "contact", vm)
}

// ContentPageHandler renders /pages/{slug} from markdown.
func ContentPageHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	page, err := contentPages.Get(chi.URLParam(r, "slug"), lang)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			renderNotFound(w, r, "notfound.page")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("slug", chi.URLParam(r, "slug")).Msg("load content page")
		http.Error(w, "content unavailable", http.StatusInternalServerError)
		return
	}

	etag := mw.WeakETag([]byte(lang + "|" + page.Lang + "|" + page.Title + "|" + string(page.Body)))
	w.Header().Set("Cache-Control", "public, max-age=600")
	w.Header().Set("ETag", etag)
	if !page.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", page.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	if mw.MatchETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	title := page.Title
	if page.SEO.Title != "" {
		title = page.SEO.Title
	}
	desc := page.Summary
	if page.SEO.Description != "" {
		desc = page.SEO.Description
	}
	vm := newPageData(r, title, desc)
	vm.Content = page
	renderPage(w, r, http.StatusOK, "page", vm)
}
