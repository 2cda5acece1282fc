package expenses

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendly/internal/audit"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// memoryRepo keeps expenses in a slice and mirrors the repository's
// soft-delete visibility rules.
type memoryRepo struct {
	rows    []ExpenseDetails
	failing bool
}

func (r *memoryRepo) Create(_ context.Context, expense *ExpenseDetails) error {
	if r.failing {
		return errors.New("db down")
	}
	expense.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *expense)
	return nil
}

func (r *memoryRepo) NextCollectionMax(_ context.Context) (int, error) {
	if r.failing {
		return 0, errors.New("db down")
	}
	maxValue := 0
	for _, row := range r.rows {
		if row.CollectionMax > maxValue {
			maxValue = row.CollectionMax
		}
	}
	return maxValue + 1, nil
}

func (r *memoryRepo) GetByGuid(_ context.Context, expenseGuid string) (*ExpenseDetails, error) {
	for i := range r.rows {
		if r.rows[i].ExpenseGuid == expenseGuid && r.rows[i].Status != string(StatusDeleted) {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, ErrExpenseNotFound
}

func (r *memoryRepo) Update(_ context.Context, expense *ExpenseDetails) error {
	for i := range r.rows {
		if r.rows[i].ID == expense.ID {
			r.rows[i] = *expense
			return nil
		}
	}
	return ErrExpenseNotFound
}

func (r *memoryRepo) List(_ context.Context, query ListQuery) ([]ExpenseDetails, int64, error) {
	var matched []ExpenseDetails
	upperBound := query.ToDate.AddDate(0, 0, 1)
	for _, row := range r.rows {
		if row.Status == string(StatusDeleted) {
			continue
		}
		if row.AddedOn.Before(query.FromDate) || !row.AddedOn.Before(upperBound) {
			continue
		}
		matched = append(matched, row)
	}
	total := int64(len(matched))
	offset := (query.PageNo - 1) * query.PageSize
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + query.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// recordingUploader captures the save call and echoes back the name.
type recordingUploader struct {
	savedFolder string
	savedName   string
	err         error
}

func (u *recordingUploader) SaveFile(_ *multipart.FileHeader, folder, name string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.savedFolder = folder
	u.savedName = name
	return name, nil
}

func (u *recordingUploader) DeleteFile(folder, name string) error { return nil }

func newTestService(repo Repository, uploader *recordingUploader, clk fixedClock) Service {
	return NewService(repo, uploader, audit.NopProducer{}, clk, "http://localhost:8080/media")
}

func TestAddRejectsNonPositiveAmount(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: time.Now().UTC()})
	actor := Actor{UserGuid: "user-1", ClientIP: "10.0.0.1"}

	for _, amount := range []float64{0, -25.50} {
		_, err := svc.Add(context.Background(), actor, &CreateExpenseRequest{
			CategoryName: "Travel",
			Amount:       amount,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Empty(t, repo.rows)
}

func TestAddAssignsSequentialExpenseIDs(t *testing.T) {
	repo := &memoryRepo{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: now})
	actor := Actor{UserGuid: "user-1", ClientIP: "10.0.0.1"}

	first, err := svc.Add(context.Background(), actor, &CreateExpenseRequest{CategoryName: "Travel", Amount: 120})
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), actor, &CreateExpenseRequest{CategoryName: "Food", Amount: 30})
	require.NoError(t, err)

	assert.Equal(t, "EXP0001", first.ExpenseID)
	assert.Equal(t, "EXP0002", second.ExpenseID)
	assert.NotEqual(t, first.ExpenseGuid, second.ExpenseGuid)

	require.Len(t, repo.rows, 2)
	assert.Equal(t, 1, repo.rows[0].CollectionMax)
	assert.Equal(t, "0001", repo.rows[0].CollectionMaxID)
	assert.Equal(t, string(StatusActive), repo.rows[0].Status)
	assert.Equal(t, "user-1", repo.rows[0].AddedBy)
	assert.Equal(t, "10.0.0.1", repo.rows[0].AddedIP)
	assert.Equal(t, now, repo.rows[0].AddedOn)
}

func TestAddStoresProofAttachment(t *testing.T) {
	repo := &memoryRepo{}
	uploader := &recordingUploader{}
	svc := newTestService(repo, uploader, fixedClock{now: time.Now().UTC()})

	resp, err := svc.Add(context.Background(), Actor{UserGuid: "user-1"}, &CreateExpenseRequest{
		CategoryName: "Travel",
		Amount:       99,
		Attachment:   &multipart.FileHeader{Filename: "taxi receipt.pdf"},
	})
	require.NoError(t, err)

	assert.Equal(t, proofFolder, uploader.savedFolder)
	assert.Contains(t, uploader.savedName, "proof-")
	assert.Contains(t, uploader.savedName, "taxi-receipt")
	assert.Contains(t, uploader.savedName, "_proof.pdf")
	assert.Equal(t, "PDF", resp.ProofType)
	assert.Equal(t, "http://localhost:8080/media/ProofFiles/"+uploader.savedName, resp.Proof)
}

func TestAddFailedUploadAbortsCreate(t *testing.T) {
	repo := &memoryRepo{}
	uploader := &recordingUploader{err: errors.New("disk full")}
	svc := newTestService(repo, uploader, fixedClock{now: time.Now().UTC()})

	_, err := svc.Add(context.Background(), Actor{UserGuid: "user-1"}, &CreateExpenseRequest{
		CategoryName: "Travel",
		Amount:       99,
		Attachment:   &multipart.FileHeader{Filename: "receipt.png"},
	})
	require.Error(t, err)
	assert.Empty(t, repo.rows)
}

func TestUpdateOverwritesFieldsAndAuditTrail(t *testing.T) {
	repo := &memoryRepo{}
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: created})

	resp, err := svc.Add(context.Background(), Actor{UserGuid: "user-1", ClientIP: "10.0.0.1"},
		&CreateExpenseRequest{CategoryName: "Travel", Amount: 120, Notes: "old"})
	require.NoError(t, err)

	updated := created.Add(48 * time.Hour)
	svc = newTestService(repo, &recordingUploader{}, fixedClock{now: updated})

	got, err := svc.Update(context.Background(), Actor{UserGuid: "user-2", ClientIP: "10.0.0.2"},
		resp.ExpenseGuid, &UpdateExpenseRequest{CategoryName: "Food", Amount: 75, Notes: "new"})
	require.NoError(t, err)

	assert.Equal(t, "Food", got.CategoryName)
	assert.Equal(t, 75.0, got.Amount)
	assert.Equal(t, "new", got.Notes)
	assert.Equal(t, "EXP0001", got.ExpenseID)

	row := repo.rows[0]
	assert.Equal(t, "user-1", row.AddedBy)
	assert.Equal(t, "user-2", row.UpdatedBy)
	assert.Equal(t, "10.0.0.2", row.UpdatedIP)
	assert.Equal(t, updated, row.UpdatedOn)
}

func TestUpdateUnknownExpense(t *testing.T) {
	svc := newTestService(&memoryRepo{}, &recordingUploader{}, fixedClock{now: time.Now().UTC()})

	_, err := svc.Update(context.Background(), Actor{UserGuid: "user-1"}, "no-such-guid",
		&UpdateExpenseRequest{CategoryName: "Food", Amount: 75})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestDeleteIsSoftAndHidesExpense(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: time.Now().UTC()})

	resp, err := svc.Add(context.Background(), Actor{UserGuid: "user-1"},
		&CreateExpenseRequest{CategoryName: "Travel", Amount: 120})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), Actor{UserGuid: "user-1"}, resp.ExpenseGuid))

	// row survives with flipped status but is invisible to reads
	require.Len(t, repo.rows, 1)
	assert.Equal(t, string(StatusDeleted), repo.rows[0].Status)

	_, err = svc.Get(context.Background(), resp.ExpenseGuid)
	assert.ErrorIs(t, err, ErrExpenseNotFound)

	err = svc.Delete(context.Background(), Actor{UserGuid: "user-1"}, resp.ExpenseGuid)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestListDefaultsToLastThreeMonths(t *testing.T) {
	repo := &memoryRepo{}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	oldSvc := newTestService(repo, &recordingUploader{}, fixedClock{now: now.AddDate(0, -4, 0)})
	_, err := oldSvc.Add(context.Background(), Actor{UserGuid: "user-1"},
		&CreateExpenseRequest{CategoryName: "Old", Amount: 10})
	require.NoError(t, err)

	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: now})
	_, err = svc.Add(context.Background(), Actor{UserGuid: "user-1"},
		&CreateExpenseRequest{CategoryName: "Recent", Amount: 20})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), &FilterQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Expenses, 1)
	assert.Equal(t, "Recent", list.Expenses[0].CategoryName)
	assert.Equal(t, 1, list.PageNo)
	assert.Equal(t, 10, list.PageSize)
}

func TestListExplicitDateWindow(t *testing.T) {
	repo := &memoryRepo{}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: now})

	_, err := svc.Add(context.Background(), Actor{UserGuid: "user-1"},
		&CreateExpenseRequest{CategoryName: "Today", Amount: 20})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), &FilterQuery{FromDate: "2026-08-28", ToDate: "2026-08-28"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	list, err = svc.List(context.Background(), &FilterQuery{FromDate: "2026-08-01", ToDate: "2026-08-27"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.TotalCount)

	_, err = svc.List(context.Background(), &FilterQuery{FromDate: "28-08-2026"})
	assert.Error(t, err)
}

func TestListPagination(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, &recordingUploader{}, fixedClock{now: time.Now().UTC()})

	for i := 0; i < 5; i++ {
		_, err := svc.Add(context.Background(), Actor{UserGuid: "user-1"},
			&CreateExpenseRequest{CategoryName: "Bulk", Amount: 10})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), &FilterQuery{PageSize: 2, PageNo: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), list.TotalCount)
	assert.Len(t, list.Expenses, 1)
}

func TestClassifyProofType(t *testing.T) {
	cases := map[string]string{
		".JPG":  "Image",
		".webm": "Video",
		".m4a":  "Audio",
		".pdf":  "PDF",
		".docx": "Word Document",
		".xlsx": "Excel Spreadsheet",
		".pptx": "PowerPoint Presentation",
		".txt":  "Text File",
		".csv":  "CSV File",
		".gz":   "Archive",
		".bin":  "Unknown",
		"":      "Unknown",
	}
	for ext, want := range cases {
		assert.Equal(t, want, classifyProofType(ext), "extension %q", ext)
	}
}
