package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/internal/shared"
)

// =====================================================
// SUBMISSION
// =====================================================

// Submission là state tạm của một lần submit form
// Chỉ sống trong một request, bỏ đi sau khi trả response
type Submission struct {
	Request    model.PublishRequest
	File       *model.UploadedFile
	State      model.PublishState
	FailedStep model.PublishState
	Trace      []model.Transition
	Asset      *model.StoredAsset
	Product    *model.Product
}

func NewSubmission(req model.PublishRequest, file *model.UploadedFile) *Submission {
	return &Submission{
		Request: req,
		File:    file,
		State:   model.StateIdle,
	}
}

func (s *Submission) transition(next model.PublishState) error {
	if !s.State.CanTransitionTo(next) {
		return fmt.Errorf("illegal publish transition %s -> %s", s.State, next)
	}
	s.Trace = append(s.Trace, model.Transition{From: s.State, To: next})
	s.State = next
	return nil
}

// =====================================================
// PUBLISH WORKFLOW
// =====================================================

// OrphanGracePeriod: độ trễ trước khi worker xử lý asset:delete_orphan
const OrphanGracePeriod = time.Minute

type PublishOptions struct {
	Namespace          string
	StepTimeout        time.Duration
	RequirePaymentLink bool
}

type publishWorkflow struct {
	backends backend.Config
	ingestor *AssetIngestor
	images   *storage.ImageProcessor
	catalog  CatalogService
	tasks    TaskEnqueuer // nil khi không có Redis
	observer metrics.PublishObserver
	opts     PublishOptions
}

func NewPublishWorkflow(
	backends backend.Config,
	images *storage.ImageProcessor,
	catalog CatalogService,
	tasks TaskEnqueuer,
	observer metrics.PublishObserver,
	opts PublishOptions,
) PublishService {
	if observer == nil {
		observer = metrics.NopObserver{}
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 15 * time.Second
	}
	return &publishWorkflow{
		backends: backends,
		ingestor: NewAssetIngestor(backends.Storage),
		images:   images,
		catalog:  catalog,
		tasks:    tasks,
		observer: observer,
		opts:     opts,
	}
}

func (w *publishWorkflow) Status() model.StatusResponse {
	status := model.StatusResponse{
		StorageConfigured: w.backends.Storage != nil,
		CatalogConfigured: w.backends.Catalog != nil,
		Namespace:         w.opts.Namespace,
	}
	status.DemoMode = !w.backends.PublishReady()
	if status.DemoMode {
		status.Message = "Demo mode: storage or catalog credentials are not configured, publishing is disabled"
	}
	return status
}

// Publish chạy tuần tự Validating -> UploadingAsset -> ResolvingLocator -> CommittingEntry
// Lỗi ở bước nào thì dừng ở Failed(step); không rollback các bước trước
func (w *publishWorkflow) Publish(ctx context.Context, sub *Submission) (*model.PublishResponse, error) {
	// Demo mode: không rời khỏi Idle
	if !w.backends.PublishReady() {
		log.Warn().Msg("Publish rejected: backends not configured")
		return nil, model.NewConfigurationError()
	}

	// 1. Validate (không gọi backend nào)
	if err := w.enter(sub, model.StateValidating); err != nil {
		return nil, err
	}
	if err := w.validate(sub); err != nil {
		return nil, w.fail(sub, err)
	}

	// 2. Upload asset
	if err := w.enter(sub, model.StateUploadingAsset); err != nil {
		return nil, err
	}
	asset, err := w.upload(ctx, sub)
	if err != nil {
		return nil, w.fail(sub, err)
	}
	sub.Asset = asset

	// 3. Resolve locator
	if err := w.enter(sub, model.StateResolvingLocator); err != nil {
		return nil, err
	}
	locator, err := w.backends.Storage.PublicURL(asset.Namespace, asset.Key)
	if err != nil {
		return nil, w.fail(sub, model.NewLocatorUnavailableError(err))
	}
	asset.Locator = locator

	// 4. Commit entry
	if err := w.enter(sub, model.StateCommittingEntry); err != nil {
		return nil, err
	}
	product, err := w.commit(ctx, sub.Request, asset)
	if err != nil {
		w.handleOrphan(ctx, asset, err)
		return nil, w.fail(sub, err)
	}
	sub.Product = product

	if err := w.enter(sub, model.StatePublished); err != nil {
		return nil, err
	}
	w.observer.RecordOutcome(string(model.StatePublished))

	log.Info().
		Str("product_id", product.ID.String()).
		Str("key", asset.Key).
		Msg("Product published")

	w.afterPublish(ctx, product, asset)

	return &model.PublishResponse{
		Product: product,
		Asset:   asset,
		State:   sub.State,
		Trace:   sub.Trace,
	}, nil
}

func (w *publishWorkflow) validate(sub *Submission) error {
	start := time.Now()
	err := func() error {
		sub.Request.Normalize()
		if err := sub.Request.Validate(w.opts.RequirePaymentLink); err != nil {
			return err
		}
		if sub.File.Empty() {
			return model.NewMissingInputError("file")
		}
		if w.images != nil {
			if err := w.images.ValidateImage(sub.File.Data); err != nil {
				return model.NewValidationError("file", err.Error())
			}
		}
		return nil
	}()
	w.observer.RecordStep(string(model.StateValidating), time.Since(start), err)
	return err
}

func (w *publishWorkflow) upload(ctx context.Context, sub *Submission) (*model.StoredAsset, error) {
	stepCtx, cancel := context.WithTimeout(ctx, w.opts.StepTimeout)
	defer cancel()

	start := time.Now()
	asset, err := w.ingestor.Ingest(stepCtx, w.opts.Namespace, sub.File)
	w.observer.RecordStep(string(model.StateUploadingAsset), time.Since(start), err)
	return asset, err
}

func (w *publishWorkflow) commit(ctx context.Context, req model.PublishRequest, asset *model.StoredAsset) (*model.Product, error) {
	stepCtx, cancel := context.WithTimeout(ctx, w.opts.StepTimeout)
	defer cancel()

	product := req.ToProduct(asset.Locator)

	start := time.Now()
	id, err := w.backends.Catalog.Insert(stepCtx, product)
	w.observer.RecordStep(string(model.StateCommittingEntry), time.Since(start), err)
	if err != nil {
		return nil, model.NewCommitError(err)
	}

	product.ID = id
	return product, nil
}

func (w *publishWorkflow) enter(sub *Submission, next model.PublishState) error {
	if err := sub.transition(next); err != nil {
		log.Error().Err(err).Msg("Publish workflow state error")
		return err
	}
	return nil
}

// fail chuyển submission sang Failed và ghi lại step lỗi
func (w *publishWorkflow) fail(sub *Submission, err error) error {
	step := sub.State
	if terr := sub.transition(model.StateFailed); terr != nil {
		log.Error().Err(terr).Msg("Publish workflow state error")
	}
	sub.FailedStep = step
	w.observer.RecordOutcome(string(model.StateFailed))

	log.Warn().
		Err(err).
		Str("step", string(step)).
		Msg("Publish failed")
	return err
}

// handleOrphan: asset đã upload nhưng entry không được ghi
func (w *publishWorkflow) handleOrphan(ctx context.Context, asset *model.StoredAsset, cause error) {
	log.Warn().
		Err(cause).
		Str("namespace", asset.Namespace).
		Str("key", asset.Key).
		Msg("Orphaned asset after commit failure")

	// Worker kiểm tra lại catalog trước khi xóa; ProcessIn cho transaction
	// đang dở (commit timeout) kịp kết thúc
	w.enqueue(ctx, shared.TypeDeleteOrphanAsset, model.DeleteOrphanPayload{
		Namespace: asset.Namespace,
		Key:       asset.Key,
		Locator:   asset.Locator,
		Reason:    cause.Error(),
	}, asynq.Queue(shared.QueueDefault), asynq.MaxRetry(3), asynq.ProcessIn(OrphanGracePeriod))
}

// afterPublish: invalidate cache + tạo thumbnail, đều best-effort
func (w *publishWorkflow) afterPublish(ctx context.Context, product *model.Product, asset *model.StoredAsset) {
	if w.catalog != nil {
		w.catalog.Invalidate(ctx)
	}

	w.enqueue(ctx, shared.TypeGenerateThumbnail, model.GenerateThumbnailPayload{
		ProductID: product.ID.String(),
		Namespace: asset.Namespace,
		Key:       asset.Key,
	}, asynq.Queue(shared.QueueImages), asynq.MaxRetry(3))
}

func (w *publishWorkflow) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) {
	if w.tasks == nil {
		return
	}

	// request ctx có thể đã hết hạn ở bước trước
	enqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := w.tasks.Enqueue(enqCtx, taskType, payload, opts...); err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("Failed to enqueue task")
	}
}
