package template

import (
	"context"
	"fmt"
	"time"

	"linecrm-service/internal/domain/record"
	"linecrm-service/internal/domain/template"
	"linecrm-service/internal/pkg/id"
	tmpl "linecrm-service/internal/pkg/template"

	"go.uber.org/zap"
)

type TemplateService struct {
	templateRepo template.Repository
	recordRepo   record.Repository
	logger       *zap.Logger
}

func NewTemplateService(templateRepo template.Repository, recordRepo record.Repository, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		recordRepo:   recordRepo,
		logger:       logger,
	}
}

// SeedDefaults installs the built-in delivery templates. Duplicate ids
// are skipped so re-seeding an existing store is harmless.
func (s *TemplateService) SeedDefaults(ctx context.Context) error {
	now := time.Now()
	defaults := []template.Template{
		{
			ID:   "delivery-confirmation",
			Name: "Delivery Confirmation",
			Content: "สวัสดีครับ/ค่ะ คุณ[ชื่อลูกค้า]\n\nยืนยันการจัดส่งสินค้า\nหมายเลขออเดอร์: [หมายเลขออเดอร์]\nวันที่จัดส่ง: [วันที่จัดส่ง]\nที่อยู่จัดส่ง: [ที่อยู่จัดส่ง]\n\n" +
				"กรุณายืนยันการรับสินค้า หรือติดต่อเราหากต้องการเปลี่ยนแปลงกำหนดการจัดส่ง\n\nขอบคุณครับ/ค่ะ\nทีมบริการลูกค้า",
			Description: "Standard delivery confirmation message with customer details",
		},
		{
			ID:   "delivery-reminder",
			Name: "Delivery Reminder",
			Content: "สวัสดีครับ/ค่ะ คุณ[ชื่อลูกค้า]\n\nเตือนความจำ: การจัดส่งสินค้า\nหมายเลขออเดอร์: [หมายเลขออเดอร์]\nกำหนดจัดส่ง: [วันที่จัดส่ง]\n\nเราจะจัดส่งสินค้าไปยัง: [ที่อยู่จัดส่ง]\n\n" +
				"กรุณาเตรียมรับสินค้า และติดต่อเราหากมีข้อสงสัยใดๆ\n\nขอบคุณครับ/ค่ะ\nทีมบริการลูกค้า",
			Description: "Delivery reminder message sent before delivery date",
		},
		{
			ID:   "delivery-reschedule",
			Name: "Delivery Reschedule Request",
			Content: "สวัสดีครับ/ค่ะ คุณ[ชื่อลูกค้า]\n\nขอเปลี่ยนกำหนดการจัดส่งสินค้า\nหมายเลขออเดอร์: [หมายเลขออเดอร์]\nวันที่กำหนดเดิม: [วันที่จัดส่ง]\n\n" +
				"กรุณาแจ้งวันที่ใหม่ที่ต้องการให้จัดส่ง เราจะประสานงานให้ตามความเหมาะสม\n\nขอบคุณครับ/ค่ะ\nทีมบริการลูกค้า",
			Description: "Request customer to reschedule delivery date",
		},
	}

	for i := range defaults {
		t := defaults[i]
		t.Variables = tmpl.ExtractVariables(t.Content)
		t.Active = true
		t.CreatedAt = now

		if _, err := s.templateRepo.FindByID(ctx, t.ID); err == nil {
			continue
		}
		if err := s.templateRepo.Create(ctx, &t); err != nil {
			return fmt.Errorf("failed to seed template %s: %w", t.ID, err)
		}
	}

	s.logger.Info("default templates seeded", zap.Int("count", len(defaults)))
	return nil
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]template.Template, error) {
	return s.templateRepo.List(ctx)
}

func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (*template.Template, error) {
	return s.templateRepo.FindByID(ctx, templateID)
}

// CreateTemplate stores a new template with its variables extracted from
// the content. Templates never change after creation.
func (s *TemplateService) CreateTemplate(ctx context.Context, req *template.CreateTemplateRequest) (*template.Template, error) {
	t := &template.Template{
		ID:          id.New(),
		Name:        req.Name,
		Content:     req.Content,
		Variables:   tmpl.ExtractVariables(req.Content),
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}

	if err := s.templateRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create template", zap.Error(err))
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("template created",
		zap.String("template_id", t.ID),
		zap.Strings("variables", t.Variables),
	)
	return t, nil
}

// Preview renders a template against one stored record and reports which
// declared variables have no value to substitute.
func (s *TemplateService) Preview(ctx context.Context, templateID string, recordID string) (*template.PreviewResponse, error) {
	t, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	rec, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	isValid, missing := tmpl.ValidateForRecord(t.Variables, rec)
	return &template.PreviewResponse{
		Message:       tmpl.Resolve(t.Content, t.Variables, rec),
		IsValid:       isValid,
		MissingFields: missing,
	}, nil
}
