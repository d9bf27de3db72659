package usecase

import (
	"context"
	"errors"
	"sync"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

type FormState string

const (
	FormInit            FormState = "init"
	FormHydrating       FormState = "hydrating"
	FormHydrationFailed FormState = "hydration_failed"
	FormReady           FormState = "ready"
	FormSubmitting      FormState = "submitting"
	FormSubmitSucceeded FormState = "submit_succeeded"
)

// previewTask derives a displayable preview for one image selection.
type previewTask struct {
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// ProductFormViewModel drives the create/edit product form. The mode is
// fixed by the presence of an id at construction.
type ProductFormViewModel struct {
	repo      domain.ProductRepository
	notifier  Notifier
	navigator Navigator
	log       *logrus.Logger

	mode FormMode
	id   string

	inflight *semaphore.Weighted

	mu         sync.Mutex
	state      FormState
	draft      domain.Draft
	previewURL string
	generation uint64
	preview    *previewTask
	lastErr    error
	saved      *domain.Product
	closed     bool
}

func NewProductFormViewModel(id string, repo domain.ProductRepository, notifier Notifier, navigator Navigator, logger *logrus.Logger) *ProductFormViewModel {
	mode := ModeCreate
	if id != "" {
		mode = ModeEdit
	}
	return &ProductFormViewModel{
		repo:      repo,
		notifier:  notifier,
		navigator: navigator,
		log:       logger,
		mode:      mode,
		id:        id,
		inflight:  semaphore.NewWeighted(1),
		state:     FormInit,
		draft:     domain.Draft{ProductID: id},
	}
}

// Activate readies the form. In edit mode it hydrates the draft from the
// server; on failure it notifies, navigates back to the list and the form
// never becomes Ready.
func (vm *ProductFormViewModel) Activate(ctx context.Context) error {
	if vm.mode == ModeCreate {
		vm.mu.Lock()
		if vm.state == FormInit {
			vm.state = FormReady
		}
		vm.mu.Unlock()
		return nil
	}

	if !vm.inflight.TryAcquire(1) {
		return domain.ErrBusy
	}
	defer vm.inflight.Release(1)

	vm.mu.Lock()
	if vm.state != FormInit {
		vm.mu.Unlock()
		return nil
	}
	vm.state = FormHydrating
	vm.mu.Unlock()

	vm.log.Infof("Use Case: Hydrating form for product %s", vm.id)
	p, err := vm.repo.Get(ctx, vm.id)

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		vm.log.Debugf("Use Case: Discarding hydration of product %s, form closed", vm.id)
		return nil
	}
	if err != nil {
		vm.state = FormHydrationFailed
		vm.lastErr = err
		vm.mu.Unlock()
		vm.log.Warnf("Use Case: Failed to hydrate product %s: %v", vm.id, err)
		vm.notifier.Notify(errorNote(describe(msgLoadProductFail, err)))
		vm.navigator.Navigate(ListPath)
		return err
	}
	vm.draft = domain.DraftFromProduct(*p)
	vm.previewURL = vm.repo.ImageURL(p.ImageRef)
	vm.state = FormReady
	vm.mu.Unlock()
	return nil
}

// Resume readies the form with a draft the host already holds, e.g. the
// values of a re-posted form. In edit mode the product id is kept.
func (vm *ProductFormViewModel) Resume(d domain.Draft) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.state != FormInit {
		return ErrNotReady
	}
	d.ProductID = vm.id
	if vm.mode == ModeCreate {
		d.ImageRef = ""
	}
	vm.draft = d
	if d.Image != nil {
		vm.previewURL = d.Image.DataURL()
	} else if d.ImageRef != "" {
		vm.previewURL = vm.repo.ImageURL(d.ImageRef)
	}
	vm.state = FormReady
	return nil
}

// SetField mutates one text field of the draft. No validation happens here.
func (vm *ProductFormViewModel) SetField(field domain.Field, value string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err := vm.editableLocked(); err != nil {
		return err
	}
	switch field {
	case domain.FieldName:
		vm.draft.Name = value
	case domain.FieldDescription:
		vm.draft.Description = value
	case domain.FieldPrice:
		vm.draft.Price = value
	default:
		return &domain.ValidationError{Fields: []domain.Field{field}, Reason: "unknown field"}
	}
	return nil
}

// SelectImage replaces the pending image and starts deriving its preview.
// A preview still running for an earlier selection is cancelled and its
// result dropped.
func (vm *ProductFormViewModel) SelectImage(img *domain.Image) error {
	if img == nil {
		return domain.ErrNotAnImage
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err := vm.editableLocked(); err != nil {
		return err
	}
	vm.draft.Image = img

	if vm.preview != nil {
		vm.preview.cancel()
	}
	vm.generation++
	ctx, cancel := context.WithCancel(context.Background())
	task := &previewTask{generation: vm.generation, cancel: cancel, done: make(chan struct{})}
	vm.preview = task

	go vm.runPreview(ctx, task, img)
	return nil
}

func (vm *ProductFormViewModel) runPreview(ctx context.Context, task *previewTask, img *domain.Image) {
	defer close(task.done)
	defer task.cancel()

	url := img.DataURL()
	if ctx.Err() != nil {
		return
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed || vm.generation != task.generation {
		vm.log.Debugf("Use Case: Dropping stale image preview (generation %d)", task.generation)
		return
	}
	vm.previewURL = url
}

// AwaitPreview blocks until the current preview task has finished.
func (vm *ProductFormViewModel) AwaitPreview(ctx context.Context) error {
	vm.mu.Lock()
	task := vm.preview
	vm.mu.Unlock()
	if task == nil {
		return nil
	}
	select {
	case <-task.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit validates the draft and sends it with exactly one create or
// update call. On failure the form returns to Ready with the draft intact.
func (vm *ProductFormViewModel) Submit(ctx context.Context) error {
	if !vm.inflight.TryAcquire(1) {
		vm.log.Warn("Use Case: Submit ignored, a submission is already in flight")
		return domain.ErrBusy
	}
	defer vm.inflight.Release(1)

	vm.mu.Lock()
	if vm.state != FormReady || vm.closed {
		vm.mu.Unlock()
		return ErrNotReady
	}
	draft := vm.draft

	if _, err := draft.Validate(vm.mode == ModeCreate); err != nil {
		vm.lastErr = err
		vm.mu.Unlock()
		vm.log.Infof("Use Case: Submit blocked by validation: %v", err)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			vm.notifier.Notify(errorNote(validationMessage(verr)))
		}
		return err
	}
	vm.state = FormSubmitting
	vm.lastErr = nil
	vm.mu.Unlock()

	var (
		saved *domain.Product
		err   error
		okMsg string
	)
	if vm.mode == ModeEdit {
		vm.log.Infof("Use Case: Submitting update of product %s", vm.id)
		saved, err = vm.repo.Update(ctx, vm.id, draft)
		okMsg = msgUpdated
	} else {
		vm.log.Infof("Use Case: Submitting new product '%s'", draft.Name)
		saved, err = vm.repo.Create(ctx, draft)
		okMsg = msgCreated
	}

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		vm.log.Debug("Use Case: Discarding submit result, form closed")
		return nil
	}
	if err != nil {
		vm.state = FormReady
		vm.lastErr = err
		vm.mu.Unlock()
		vm.log.Errorf("Use Case: Failed to save product: %v", err)
		vm.notifier.Notify(errorNote(describe(msgSaveFailed, err)))
		return err
	}
	vm.state = FormSubmitSucceeded
	vm.saved = saved
	if vm.preview != nil {
		vm.preview.cancel()
	}
	vm.mu.Unlock()

	vm.notifier.Notify(successNote(okMsg))
	vm.navigator.Navigate(ListPath)
	return nil
}

// Close tears the form down. The preview task is cancelled and late
// responses are ignored.
func (vm *ProductFormViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
	if vm.preview != nil {
		vm.preview.cancel()
	}
}

func (vm *ProductFormViewModel) editableLocked() error {
	switch {
	case vm.closed:
		return ErrNotReady
	case vm.state == FormSubmitting:
		return domain.ErrBusy
	case vm.state != FormReady:
		return ErrNotReady
	}
	return nil
}

func (vm *ProductFormViewModel) Mode() FormMode { return vm.mode }

func (vm *ProductFormViewModel) IsEdit() bool { return vm.mode == ModeEdit }

func (vm *ProductFormViewModel) ProductID() string { return vm.id }

func (vm *ProductFormViewModel) State() FormState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// CanSubmit is false while a submission is in flight.
func (vm *ProductFormViewModel) CanSubmit() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state == FormReady && !vm.closed
}

func (vm *ProductFormViewModel) Draft() domain.Draft {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.draft
}

func (vm *ProductFormViewModel) PreviewURL() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.previewURL
}

func (vm *ProductFormViewModel) LastError() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastErr
}

// Saved is the product returned by the last successful submit, if any.
func (vm *ProductFormViewModel) Saved() *domain.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.saved
}
