package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/backend"
	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/internal/shared"
)

const testNamespace = "products"

type workflowFixture struct {
	workflow PublishService
	storage  *mockStorage
	catalog  *mockCatalog
	cache    *mockCache
	tasks    *mockEnqueuer
}

func setupWorkflow(t *testing.T, opts PublishOptions) *workflowFixture {
	t.Helper()
	f := &workflowFixture{
		storage: newMockStorage(),
		catalog: &mockCatalog{},
		cache:   newMockCache(),
		tasks:   &mockEnqueuer{},
	}
	if opts.Namespace == "" {
		opts.Namespace = testNamespace
	}
	if opts.StepTimeout == 0 {
		opts.StepTimeout = time.Second
	}

	backends := backend.Config{Storage: f.storage, Catalog: f.catalog}
	catalog := NewCatalogService(f.catalog, f.cache, time.Minute)
	f.workflow = NewPublishWorkflow(backends, storage.NewImageProcessor(0), catalog, f.tasks, nil, opts)
	return f
}

func pngFile(t *testing.T, name string) *model.UploadedFile {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return &model.UploadedFile{Filename: name, Data: buf.Bytes()}
}

func rocketRequest() model.PublishRequest {
	return model.PublishRequest{
		Name:        "Rocket",
		Description: "A very fast rocket",
		Price:       "49.99",
	}
}

func TestPublish_Success(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	sub := NewSubmission(rocketRequest(), pngFile(t, "rocket.PNG"))

	resp, err := f.workflow.Publish(context.Background(), sub)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, model.StatePublished, sub.State)
	assert.Equal(t, model.StatePublished, resp.State)

	// đúng một asset và một entry
	assert.Equal(t, 1, f.storage.objectCount())
	require.Len(t, f.catalog.rows, 1)

	p := resp.Product
	assert.Equal(t, "Rocket", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("49.99")))
	assert.True(t, p.Published)
	assert.Nil(t, p.PaymentLink)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", p.ID.String())

	// locator của entry == PublicURL(namespace, key)
	expected, err := f.storage.PublicURL(testNamespace, resp.Asset.Key)
	require.NoError(t, err)
	assert.Equal(t, expected, p.ImageURL)
	assert.Equal(t, expected, f.catalog.rows[0].ImageURL)
	assert.Regexp(t, `^public/[0-9a-v]{20}\.png$`, resp.Asset.Key)
	assert.Equal(t, "image/png", resp.Asset.ContentType)

	assert.Equal(t, []model.Transition{
		{From: model.StateIdle, To: model.StateValidating},
		{From: model.StateValidating, To: model.StateUploadingAsset},
		{From: model.StateUploadingAsset, To: model.StateResolvingLocator},
		{From: model.StateResolvingLocator, To: model.StateCommittingEntry},
		{From: model.StateCommittingEntry, To: model.StatePublished},
	}, resp.Trace)

	assert.Equal(t, []string{shared.TypeGenerateThumbnail}, f.tasks.types())
	assert.Equal(t, 1, f.cache.deletes)
}

func TestPublish_WithPaymentLink(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{RequirePaymentLink: true})
	req := rocketRequest()
	req.PaymentLink = "https://buy.stripe.com/test_123"

	resp, err := f.workflow.Publish(context.Background(), NewSubmission(req, pngFile(t, "r.png")))

	require.NoError(t, err)
	require.NotNil(t, resp.Product.PaymentLink)
	assert.Equal(t, "https://buy.stripe.com/test_123", *resp.Product.PaymentLink)
}

func TestPublish_MissingFile(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	sub := NewSubmission(rocketRequest(), nil)

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsMissingInputError(err))
	assert.Equal(t, model.StateFailed, sub.State)
	assert.Equal(t, model.StateValidating, sub.FailedStep)
	assert.Equal(t, 0, f.storage.putCalls)
	assert.Equal(t, 0, f.catalog.insertCalls)
}

func TestPublish_ValidationFailuresMakeNoBackendCalls(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.PublishRequest)
		field  string
		opts   PublishOptions
	}{
		{"missing name", func(r *model.PublishRequest) { r.Name = "  " }, "name", PublishOptions{}},
		{"missing description", func(r *model.PublishRequest) { r.Description = "" }, "description", PublishOptions{}},
		{"missing price", func(r *model.PublishRequest) { r.Price = "" }, "price", PublishOptions{}},
		{"negative price", func(r *model.PublishRequest) { r.Price = "-1" }, "price", PublishOptions{}},
		{"price above column range", func(r *model.PublishRequest) { r.Price = "100000000.00" }, "price", PublishOptions{}},
		{"bad payment link", func(r *model.PublishRequest) { r.PaymentLink = "ftp://x.y/z" }, "payment_link", PublishOptions{}},
		{"required payment link", func(r *model.PublishRequest) {}, "payment_link", PublishOptions{RequirePaymentLink: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupWorkflow(t, tc.opts)
			req := rocketRequest()
			tc.mutate(&req)
			sub := NewSubmission(req, pngFile(t, "r.png"))

			_, err := f.workflow.Publish(context.Background(), sub)

			require.Error(t, err)
			assert.True(t, model.IsValidationError(err))
			pe, ok := model.AsPublishError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, pe.Field)
			assert.Equal(t, model.StateValidating, sub.FailedStep)
			assert.Equal(t, 0, f.storage.putCalls)
			assert.Equal(t, 0, f.catalog.insertCalls)
		})
	}
}

func TestPublish_RejectsNonImage(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	file := &model.UploadedFile{Filename: "notes.txt", Data: []byte("hello")}

	_, err := f.workflow.Publish(context.Background(), NewSubmission(rocketRequest(), file))

	require.Error(t, err)
	pe, ok := model.AsPublishError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeValidation, pe.Code)
	assert.Equal(t, "file", pe.Field)
	assert.Equal(t, 0, f.storage.putCalls)
}

func TestPublish_StorageWriteError(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	f.storage.putErr = errors.New("bucket not found")
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsStorageWriteError(err))
	assert.Contains(t, err.Error(), "bucket not found")
	assert.Equal(t, model.StateUploadingAsset, sub.FailedStep)
	assert.Equal(t, 0, f.catalog.insertCalls)
	assert.Empty(t, f.catalog.rows)
}

func TestPublish_UploadTimeoutIsStorageWriteError(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{StepTimeout: 20 * time.Millisecond})
	f.storage.block = true
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsStorageWriteError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.StateUploadingAsset, sub.FailedStep)
}

func TestPublish_LocatorUnavailable(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	f.storage.noBase = true
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsLocatorUnavailableError(err))
	assert.Equal(t, model.StateResolvingLocator, sub.FailedStep)
	assert.Equal(t, 0, f.catalog.insertCalls)
}

func TestPublish_CommitErrorThenResubmit(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	f.catalog.insertErr = errors.New("connection refused")
	first := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), first)

	require.Error(t, err)
	assert.True(t, model.IsCommitError(err))
	assert.Equal(t, model.StateCommittingEntry, first.FailedStep)
	assert.Empty(t, f.catalog.rows)
	assert.Equal(t, []string{shared.TypeDeleteOrphanAsset}, f.tasks.types())

	// operator sửa lỗi và submit lại
	f.catalog.insertErr = nil
	second := NewSubmission(rocketRequest(), pngFile(t, "r.png"))
	_, err = f.workflow.Publish(context.Background(), second)

	require.NoError(t, err)
	assert.Len(t, f.catalog.rows, 1)
	assert.Equal(t, model.StatePublished, second.State)
}

func TestPublish_CommitTimeoutIsCommitError(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{StepTimeout: 20 * time.Millisecond})
	f.catalog.block = true
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsCommitError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.StateFailed, sub.State)
	assert.Equal(t, model.StateCommittingEntry, sub.FailedStep)

	// asset chưa bị xóa đồng bộ, cleanup để worker quyết định
	assert.Equal(t, 1, f.storage.objectCount())
	assert.Empty(t, f.storage.deleteKeys)
}

func TestPublish_LostCommitAckCarriesLocatorForOrphanCheck(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})
	f.catalog.ackLost = true
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := f.workflow.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsCommitError(err))
	require.Len(t, f.catalog.rows, 1)

	payloads := f.tasks.payloads(shared.TypeDeleteOrphanAsset)
	require.Len(t, payloads, 1)
	payload, ok := payloads[0].(model.DeleteOrphanPayload)
	require.True(t, ok)
	assert.Equal(t, f.catalog.rows[0].ImageURL, payload.Locator)

	// worker sẽ thấy locator vẫn được tham chiếu
	referenced, err := f.catalog.ExistsByImageURL(context.Background(), payload.Locator)
	require.NoError(t, err)
	assert.True(t, referenced)
	assert.Empty(t, f.storage.deleteKeys)
}

func TestPublish_NotConfigured(t *testing.T) {
	wf := NewPublishWorkflow(backend.Config{}, storage.NewImageProcessor(0), nil, nil, nil, PublishOptions{Namespace: testNamespace})
	sub := NewSubmission(rocketRequest(), pngFile(t, "r.png"))

	_, err := wf.Publish(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, model.IsConfigurationError(err))
	assert.Equal(t, model.StateIdle, sub.State)
	assert.Empty(t, sub.Trace)

	status := wf.Status()
	assert.True(t, status.DemoMode)
	assert.False(t, status.StorageConfigured)
	assert.NotEmpty(t, status.Message)
}

func TestStatus_Configured(t *testing.T) {
	f := setupWorkflow(t, PublishOptions{})

	status := f.workflow.Status()

	assert.False(t, status.DemoMode)
	assert.True(t, status.StorageConfigured)
	assert.True(t, status.CatalogConfigured)
	assert.Equal(t, testNamespace, status.Namespace)
}

func TestSubmission_RejectsIllegalTransition(t *testing.T) {
	sub := NewSubmission(rocketRequest(), nil)

	assert.Error(t, sub.transition(model.StatePublished))
	assert.NoError(t, sub.transition(model.StateValidating))
	assert.Error(t, sub.transition(model.StateCommittingEntry))
	assert.NoError(t, sub.transition(model.StateFailed))
	assert.Error(t, sub.transition(model.StateValidating))
}
