package delivery

import (
	"errors"
	"net/http"

	"admin_console/internal/domain"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
)

type listView struct {
	Products []domain.Product
	Loaded   bool
}

type formView struct {
	IsEdit       bool
	Action       string
	Draft        domain.Draft
	PreviewURL   string
	PendingImage string
	PendingName  string
	CanSubmit    bool
	Invalid      map[string]bool
}

type confirmView struct {
	Action string
	Prompt string
}

func (h *Handler) ListProducts(c *gin.Context) {
	fx := &usecase.Effects{}
	vm := usecase.NewProductListViewModel(h.repository(c), fx, usecase.ConfirmFunc(func(string) bool { return false }), h.log)
	defer vm.Close()

	err := vm.Activate(c.Request.Context())
	h.render.Render(c, statusFor(err), "list", h.page(c, "Productos", fx.Notifications(), listView{
		Products: vm.Products(),
		Loaded:   vm.HasLoaded(),
	}))
}

// ConfirmDelete shows the yes/no page. The view-model is asked to delete
// with a confirmer that records the prompt and declines, so nothing is sent.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	id := c.Param("id")
	var prompt string
	confirmer := usecase.ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	})
	fx := &usecase.Effects{}
	vm := usecase.NewProductListViewModel(h.repository(c), fx, confirmer, h.log)
	defer vm.Close()

	if err := vm.Delete(c.Request.Context(), id); err != nil {
		h.log.WithField("handler", "ConfirmDelete").Errorf("Unexpected error from declined delete: %v", err)
	}
	h.render.Render(c, http.StatusOK, "confirm", h.page(c, "Eliminar producto", nil, confirmView{
		Action: usecase.DeletePath(id),
		Prompt: prompt,
	}))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "DeleteProduct")
	id := c.Param("id")
	confirmed := c.PostForm("confirmar") == "si"

	fx := &usecase.Effects{}
	vm := usecase.NewProductListViewModel(h.repository(c), fx, usecase.ConfirmFunc(func(string) bool { return confirmed }), h.log)
	defer vm.Close()

	if err := vm.Delete(c.Request.Context(), id); err != nil {
		handlerLogger.Warnf("Delete of product %s failed: %v", id, err)
	}
	h.redirect(c, usecase.ListPath, fx.Notifications())
}

func (h *Handler) NewProductForm(c *gin.Context) {
	h.showForm(c, "")
}

func (h *Handler) EditProductForm(c *gin.Context) {
	h.showForm(c, c.Param("id"))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	h.submitForm(c, "")
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	h.submitForm(c, c.Param("id"))
}

func (h *Handler) showForm(c *gin.Context, id string) {
	fx := &usecase.Effects{}
	vm := usecase.NewProductFormViewModel(id, h.repository(c), fx, fx, h.log)
	defer vm.Close()

	err := vm.Activate(c.Request.Context())
	if to := fx.Redirect(); to != "" {
		h.redirect(c, to, fx.Notifications())
		return
	}
	h.renderForm(c, vm, statusFor(err), fx.Notifications())
}

func (h *Handler) submitForm(c *gin.Context, id string) {
	handlerLogger := h.log.WithField("handler", "SubmitProductForm")
	ctx := c.Request.Context()
	fx := &usecase.Effects{}
	vm := usecase.NewProductFormViewModel(id, h.repository(c), fx, fx, h.log)
	defer vm.Close()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, formLimit(h.maxUpload))
	form, err := readProductForm(c.Request, h.maxUpload)
	if resumeErr := vm.Resume(form.draft()); resumeErr != nil {
		handlerLogger.Errorf("Failed to resume form: %v", resumeErr)
		c.String(http.StatusInternalServerError, "Error interno")
		return
	}

	img, imgErr := form.image()
	if img != nil {
		if selErr := vm.SelectImage(img); selErr != nil {
			handlerLogger.Errorf("Failed to select image: %v", selErr)
		}
	}
	if err == nil {
		err = imgErr
	}

	if err != nil {
		handlerLogger.Warnf("Rejected product form: %v", err)
		fx.Notify(errorNotification(formErrorMessage(err)))
	} else {
		err = vm.Submit(ctx)
	}

	if err == nil {
		if to := fx.Redirect(); to != "" {
			h.redirect(c, to, fx.Notifications())
			return
		}
	}
	h.renderForm(c, vm, statusFor(err), fx.Notifications())
}

func (h *Handler) renderForm(c *gin.Context, vm *usecase.ProductFormViewModel, status int, notes []domain.Notification) {
	if err := vm.AwaitPreview(c.Request.Context()); err != nil {
		h.log.WithField("handler", "RenderProductForm").Warnf("Image preview not ready: %v", err)
	}
	draft := vm.Draft()
	view := formView{
		IsEdit:     vm.IsEdit(),
		Action:     usecase.NewPath,
		Draft:      draft,
		PreviewURL: vm.PreviewURL(),
		CanSubmit:  vm.CanSubmit(),
		Invalid:    map[string]bool{},
	}
	if vm.IsEdit() {
		view.Action = usecase.EditPath(vm.ProductID())
	}
	if draft.Image != nil {
		view.PendingImage = draft.Image.DataURL()
		view.PendingName = draft.Image.FileName
	}
	var verr *domain.ValidationError
	if errors.As(vm.LastError(), &verr) {
		for _, f := range verr.Fields {
			view.Invalid[string(f)] = true
		}
	}

	title := "Nuevo producto"
	if vm.IsEdit() {
		title = "Editar producto"
	}
	h.render.Render(c, status, "form", h.page(c, title, notes, view))
}
