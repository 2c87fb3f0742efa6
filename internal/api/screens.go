package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"

	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
	"github.com/Kerhoff/wishlist/internal/service"
	"github.com/Kerhoff/wishlist/web"
)

var screens = []string{"home.html", "details.html", "form.html", "webview.html"}

// renderer holds one template set per screen, each sharing the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() *renderer {
	r := &renderer{pages: make(map[string]*template.Template, len(screens))}
	for _, name := range screens {
		r.pages[name] = template.Must(template.ParseFS(web.Templates, "templates/layout.html", "templates/"+name))
	}
	return r
}

func staticFS() fs.FS {
	sub, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// page carries the layout fields every screen sets.
type page struct {
	Title   string
	Back    string
	Refresh int
}

type cardView struct {
	*models.WishlistItem
	Pending bool
}

type sectionView struct {
	Title string
	Items []cardView
}

type homePage struct {
	page
	Sections []sectionView
	Pending  []service.PendingDeletion
}

type detailsPage struct {
	page
	Item *models.WishlistItem
}

type formPage struct {
	page
	Action     string
	Cancel     string
	Form       service.ItemForm
	Categories []models.Category
	ShowCustom bool
	Errors     []string
}

type webViewPage struct {
	page
	URL  string
	Item *models.WishlistItem
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.WithError(err).WithField("template", name).Error("failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Debug("failed to write page")
	}
}

// pageError answers a screen request that failed in the service layer.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, repository.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	s.logger.WithError(err).Errorf("failed to %s", action)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---------------------------------------------------------------------------
// Home
// ---------------------------------------------------------------------------

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sections, err := s.svc.Sections(r.Context())
	if err != nil {
		s.pageError(w, r, err, "list sections")
		return
	}

	data := homePage{
		page:    page{Title: "Wishlist"},
		Pending: s.svc.PendingDeletions(),
	}
	for _, sec := range sections {
		view := sectionView{Title: sec.Title, Items: make([]cardView, len(sec.Items))}
		for i, item := range sec.Items {
			view.Items[i] = cardView{WishlistItem: item, Pending: s.svc.IsPendingDelete(item.ID)}
		}
		data.Sections = append(data.Sections, view)
	}

	// Reload once the undo window closed so committed deletions disappear.
	if len(data.Pending) > 0 {
		data.Refresh = int(math.Ceil(s.svc.Deletions.Window().Seconds())) + 1
	}

	s.render(w, http.StatusOK, "home.html", data)
}

// ---------------------------------------------------------------------------
// Add / Edit
// ---------------------------------------------------------------------------

func formFromRequest(r *http.Request) service.ItemForm {
	return service.ItemForm{
		Title:          r.PostFormValue("title"),
		Description:    r.PostFormValue("description"),
		Price:          r.PostFormValue("price"),
		URL:            r.PostFormValue("url"),
		Category:       r.PostFormValue("category"),
		CustomCategory: r.PostFormValue("custom_category"),
		CustomImage:    r.PostFormValue("custom_image"),
	}
}

// categoryOptions returns the picker entries, adding the form's category
// when it is an existing custom one.
func categoryOptions(form service.ItemForm) []models.Category {
	if form.Category == "" || form.Category == models.CategoryCustom || models.IsPredefined(form.Category) {
		return models.Categories
	}
	opts := make([]models.Category, 0, len(models.Categories)+1)
	opts = append(opts, models.Categories...)
	return append(opts, models.Category{Label: form.Category, Value: form.Category})
}

func newFormPage(title, action, cancel string, form service.ItemForm, err error) formPage {
	return formPage{
		page:       page{Title: title, Back: cancel},
		Action:     action,
		Cancel:     cancel,
		Form:       form,
		Categories: categoryOptions(form),
		ShowCustom: form.Category == models.CategoryCustom,
		Errors:     service.ValidationMessages(err),
	}
}

func (s *Server) handleNewItemPage(w http.ResponseWriter, r *http.Request) {
	form := service.ItemForm{Category: models.DefaultCategory}
	s.render(w, http.StatusOK, "form.html", newFormPage("Add Item", "/items", "/", form, nil))
}

func (s *Server) handleCreateItemPage(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	if _, err := s.svc.Add(r.Context(), form); err != nil {
		if errors.Is(err, service.ErrInvalidItem) {
			s.render(w, http.StatusBadRequest, "form.html", newFormPage("Add Item", "/items", "/", form, err))
			return
		}
		s.pageError(w, r, err, "add item")
		return
	}

	redirectHome(w, r)
}

func (s *Server) handleEditItemPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.pageError(w, r, err, "get item")
		return
	}

	form := service.ItemForm{
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		URL:         item.URL,
		Category:    item.Category,
	}
	if !models.IsPredefined(item.Category) {
		form.CustomImage = item.Image
	}

	action := fmt.Sprintf("/items/%d", id)
	s.render(w, http.StatusOK, "form.html", newFormPage("Edit Item", action, action, form, nil))
}

func (s *Server) handleUpdateItemPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	form := formFromRequest(r)
	if _, err := s.svc.Update(r.Context(), id, form); err != nil {
		if errors.Is(err, service.ErrInvalidItem) {
			action := fmt.Sprintf("/items/%d", id)
			s.render(w, http.StatusBadRequest, "form.html", newFormPage("Edit Item", action, action, form, err))
			return
		}
		s.pageError(w, r, err, "update item")
		return
	}

	redirectHome(w, r)
}

// ---------------------------------------------------------------------------
// Details / Web View
// ---------------------------------------------------------------------------

func (s *Server) handleDetailsPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.pageError(w, r, err, "get item")
		return
	}

	s.render(w, http.StatusOK, "details.html", detailsPage{
		page: page{Title: item.Title, Back: "/"},
		Item: item,
	})
}

func (s *Server) handleWebViewPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.pageError(w, r, err, "get item")
		return
	}
	if !item.HasURL() {
		http.NotFound(w, r)
		return
	}

	s.render(w, http.StatusOK, "webview.html", webViewPage{
		page: page{Title: "Web View", Back: fmt.Sprintf("/items/%d", id)},
		URL:  item.URL,
		Item: item,
	})
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

func (s *Server) handleDeleteItemPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.pageError(w, r, err, "delete item")
		return
	}

	redirectHome(w, r)
}

func (s *Server) handleSwipeDeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := s.svc.ScheduleDelete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSchedulerClosed) {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		s.pageError(w, r, err, "schedule deletion")
		return
	}

	redirectHome(w, r)
}

// handleUndoPage returns to Home even when the window already closed.
func (s *Server) handleUndoPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := s.svc.UndoDelete(id); err != nil && !errors.Is(err, service.ErrNoPendingDeletion) {
		s.pageError(w, r, err, "undo deletion")
		return
	}

	redirectHome(w, r)
}
