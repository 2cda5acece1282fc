package expenses

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendly/internal/audit"
	"spendly/internal/shared/clock"
	"spendly/internal/shared/uploads"
	"spendly/pkg/logger"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)

const proofFolder = "ProofFiles"

type Service interface {
	Add(ctx context.Context, actor Actor, req *CreateExpenseRequest) (*ExpenseResponse, error)
	List(ctx context.Context, filter *FilterQuery) (*ExpenseListResponse, error)
	Get(ctx context.Context, expenseGuid string) (*ExpenseResponse, error)
	Update(ctx context.Context, actor Actor, expenseGuid string, req *UpdateExpenseRequest) (*ExpenseResponse, error)
	Delete(ctx context.Context, actor Actor, expenseGuid string) error
}

type service struct {
	repo     Repository
	uploader uploads.Service
	auditor  audit.Producer
	clock    clock.Clock
	mediaURL string
	logger   *logger.Logger
}

func NewService(repo Repository, uploader uploads.Service, auditor audit.Producer, clk clock.Clock, mediaBaseURL string) Service {
	return &service{
		repo:     repo,
		uploader: uploader,
		auditor:  auditor,
		clock:    clk,
		mediaURL: strings.TrimRight(mediaBaseURL, "/"),
		logger:   logger.GetDefault(),
	}
}

func (s *service) Add(ctx context.Context, actor Actor, req *CreateExpenseRequest) (*ExpenseResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.clock.Now()

	stored := ""
	storedType := ""
	if req.Attachment != nil {
		var err error
		stored, storedType, err = s.storeProof(req.Attachment)
		if err != nil {
			return nil, err
		}
	}

	nextMax, err := s.repo.NextCollectionMax(ctx)
	if err != nil {
		return nil, fmt.Errorf("next expense sequence: %w", err)
	}
	nextID := fmt.Sprintf("%04d", nextMax)

	expense := &ExpenseDetails{
		ExpenseGuid:     uuid.New().String(),
		ExpenseID:       "EXP" + nextID,
		CategoryName:    req.CategoryName,
		Amount:          req.Amount,
		Notes:           req.Notes,
		Proof:           stored,
		ProofType:       storedType,
		AddedBy:         actor.UserGuid,
		AddedOn:         now,
		AddedIP:         actor.ClientIP,
		UpdatedBy:       actor.UserGuid,
		UpdatedOn:       now,
		UpdatedIP:       actor.ClientIP,
		Status:          string(StatusActive),
		CollectionMax:   nextMax,
		CollectionMaxID: nextID,
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.logger.LogExpenseCreated(ctx, expense.ExpenseGuid, actor.UserGuid)
	s.publishAudit(ctx, "created", expense.ExpenseGuid, actor)

	return s.toResponse(expense), nil
}

func (s *service) List(ctx context.Context, filter *FilterQuery) (*ExpenseListResponse, error) {
	query, err := s.buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, totalCount, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	responses := make([]ExpenseResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, *s.toResponse(&rows[i]))
	}

	return &ExpenseListResponse{
		Expenses:   responses,
		TotalCount: totalCount,
		PageNo:     query.PageNo,
		PageSize:   query.PageSize,
	}, nil
}

func (s *service) Get(ctx context.Context, expenseGuid string) (*ExpenseResponse, error) {
	expense, err := s.repo.GetByGuid(ctx, expenseGuid)
	if err != nil {
		return nil, err
	}
	return s.toResponse(expense), nil
}

func (s *service) Update(ctx context.Context, actor Actor, expenseGuid string, req *UpdateExpenseRequest) (*ExpenseResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	expense, err := s.repo.GetByGuid(ctx, expenseGuid)
	if err != nil {
		return nil, err
	}

	stored := expense.Proof
	storedType := expense.ProofType
	if req.Attachment != nil {
		stored, storedType, err = s.storeProof(req.Attachment)
		if err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	expense.CategoryName = req.CategoryName
	expense.Amount = req.Amount
	expense.Notes = req.Notes
	expense.Proof = stored
	expense.ProofType = storedType
	expense.UpdatedBy = actor.UserGuid
	expense.UpdatedOn = now
	expense.UpdatedIP = actor.ClientIP

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	s.logger.LogExpenseUpdated(ctx, expense.ExpenseGuid, actor.UserGuid)
	s.publishAudit(ctx, "updated", expense.ExpenseGuid, actor)

	return s.toResponse(expense), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, expenseGuid string) error {
	expense, err := s.repo.GetByGuid(ctx, expenseGuid)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	expense.Status = string(StatusDeleted)
	expense.UpdatedBy = actor.UserGuid
	expense.UpdatedOn = now
	expense.UpdatedIP = actor.ClientIP

	if err := s.repo.Update(ctx, expense); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.LogExpenseDeleted(ctx, expense.ExpenseGuid, actor.UserGuid)
	s.publishAudit(ctx, "deleted", expense.ExpenseGuid, actor)

	return nil
}

// buildListQuery normalizes paging and the date window. Default window
// is the last three months.
func (s *service) buildListQuery(filter *FilterQuery) (ListQuery, error) {
	query := ListQuery{
		PageNo:   filter.PageNo,
		PageSize: filter.PageSize,
		Search:   filter.SParam,
	}
	if query.PageSize < 1 {
		query.PageSize = 10
	}
	if query.PageNo < 1 {
		query.PageNo = 1
	}

	now := s.clock.Now()
	query.FromDate = now.AddDate(0, -3, 0)
	query.ToDate = now

	if filter.FromDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return ListQuery{}, fmt.Errorf("invalid from_date: %w", err)
		}
		query.FromDate = parsed
	}
	if filter.ToDate != "" {
		parsed, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return ListQuery{}, fmt.Errorf("invalid to_date: %w", err)
		}
		query.ToDate = parsed
	}

	return query, nil
}

// storeProof saves the attachment under a collision-free name and
// classifies it from the original extension.
func (s *service) storeProof(attachment *multipart.FileHeader) (string, string, error) {
	name := proofFileName(attachment.Filename)
	stored, err := s.uploader.SaveFile(attachment, proofFolder, name)
	if err != nil {
		return "", "", fmt.Errorf("store proof file: %w", err)
	}
	return stored, classifyProofType(filepath.Ext(attachment.Filename)), nil
}

func (s *service) toResponse(expense *ExpenseDetails) *ExpenseResponse {
	proof := expense.Proof
	if proof != "" {
		proof = s.mediaURL + "/" + proofFolder + "/" + proof
	}
	return &ExpenseResponse{
		ExpenseGuid:  expense.ExpenseGuid,
		ExpenseID:    expense.ExpenseID,
		CategoryName: expense.CategoryName,
		Amount:       expense.Amount,
		Notes:        expense.Notes,
		Proof:        proof,
		ProofType:    expense.ProofType,
		AddedOn:      expense.AddedOn,
		Status:       expense.Status,
	}
}

// publishAudit sends the audit event; a failed publish is logged and
// never fails the request.
func (s *service) publishAudit(ctx context.Context, action, expenseGuid string, actor Actor) {
	event := &audit.Event{
		Action:     action,
		EntityType: "expense",
		EntityGuid: expenseGuid,
		Actor:      actor.UserGuid,
		ClientIP:   actor.ClientIP,
		OccurredAt: s.clock.Now(),
	}
	if err := s.auditor.Publish(ctx, event); err != nil {
		s.logger.WithError(err).Warn("audit event publish failed",
			"action", action, "expense_guid", expenseGuid)
	}
}

// proofFileName builds the stored attachment name from the original:
// proof-<uuid>_<sanitized-base>_proof<ext>.
func proofFileName(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, ".", "")
	uniqueID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "proof-" + uniqueID + "_" + base + "_proof" + ext
}

// classifyProofType maps a file extension to a coarse attachment type.
func classifyProofType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".svg":
		return "Image"
	case ".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm":
		return "Video"
	case ".mp3", ".wav", ".aac", ".flac", ".ogg", ".wma", ".m4a":
		return "Audio"
	case ".pdf":
		return "PDF"
	case ".doc", ".docx":
		return "Word Document"
	case ".xls", ".xlsx":
		return "Excel Spreadsheet"
	case ".ppt", ".pptx":
		return "PowerPoint Presentation"
	case ".txt":
		return "Text File"
	case ".csv":
		return "CSV File"
	case ".zip", ".rar", ".7z", ".tar", ".gz":
		return "Archive"
	default:
		return "Unknown"
	}
}
