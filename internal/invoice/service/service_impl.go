package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/talentbill/talentbill/internal/clock"
	"github.com/talentbill/talentbill/internal/config"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	"github.com/talentbill/talentbill/internal/invoice/archive"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	"github.com/talentbill/talentbill/internal/invoice/render"
	"github.com/talentbill/talentbill/internal/mail"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     invoicedomain.Repository
	Renderer *render.Renderer
	Archive  archive.Store
	Mailer   mail.Mailer
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.Config
	repo     invoicedomain.Repository
	renderer *render.Renderer
	archive  archive.Store
	mailer   mail.Mailer
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Cfg,
		repo:     p.Repo,
		renderer: p.Renderer,
		archive:  p.Archive,
		mailer:   p.Mailer,
	}
}

// IssueForPayment runs the issuance chain. Every step is a hard dependency
// on the previous one except the closing notification, which is
// best-effort. A crash after number assignment burns the number; that is
// the accepted price of keeping the counter strictly forward-moving.
func (s *Service) IssueForPayment(
	ctx context.Context,
	payment *paymentdomain.PaymentRecord,
	subscription *subscriptiondomain.SubscriptionRecord,
	plan *plandomain.PlanDefinition,
	employer *employerdomain.Employer,
) (*invoicedomain.Invoice, error) {
	if payment == nil || plan == nil {
		return nil, fmt.Errorf("invoice issuance needs a payment and a plan")
	}
	if employer == nil {
		return nil, employerdomain.ErrEmployerNotFound
	}

	now := s.clock.Now(ctx)
	year := now.Year()

	// 1. Number assignment.
	seq, err := s.repo.NextSequence(ctx, s.db, year)
	if err != nil {
		return nil, fmt.Errorf("assign invoice number: %w", err)
	}
	number := invoicedomain.FormatNumber(year, seq)

	// 2. Pricing.
	subtotal := payment.Amount
	taxRate := s.cfg.Invoice.TaxRatePercent
	taxAmount := int64(math.Round(float64(subtotal) * taxRate / 100))
	totalAmount := subtotal + taxAmount

	billTo := invoicedomain.BillTo{
		CompanyName: employer.CompanyName,
		Email:       employer.Email,
		Phone:       employer.Phone,
		Address:     employer.Address,
	}
	items := []invoicedomain.LineItem{{
		Description: fmt.Sprintf("%s plan subscription (%s)", plan.Name, plan.Period),
		PlanCode:    plan.Code,
		Quantity:    1,
		UnitPrice:   subtotal,
		Amount:      subtotal,
	}}

	// 3. Rendering.
	pdf, err := s.renderer.Render(render.Document{
		Number:   number,
		Date:     now.Format("02 Jan 2006"),
		Currency: payment.Currency,
		Seller: render.Seller{
			Name:    s.cfg.Invoice.SellerName,
			Address: s.cfg.Invoice.SellerAddress,
			Email:   s.cfg.Invoice.SellerEmail,
		},
		BillTo:      billTo,
		Items:       items,
		Subtotal:    subtotal,
		TaxRate:     taxRate,
		TaxAmount:   taxAmount,
		TotalAmount: totalAmount,
	})
	if err != nil {
		return nil, err
	}

	// 4. Archival.
	upload, err := s.archive.Put(ctx, "invoices/"+number+".pdf", pdf, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("archive invoice %s: %w", number, err)
	}

	// 5. Persistence.
	billToJSON, err := json.Marshal(billTo)
	if err != nil {
		return nil, err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	invoice := &invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		EmployerID:    employer.ID,
		PaymentID:     payment.ID,
		InvoiceNumber: number,
		InvoiceDate:   now,
		BillTo:        datatypes.JSON(billToJSON),
		Items:         datatypes.JSON(itemsJSON),
		Subtotal:      subtotal,
		TaxRate:       taxRate,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		Currency:      payment.Currency,
		PDFURL:        upload.URL,
		PDFPublicID:   upload.Key,
		Status:        invoicedomain.InvoiceStatusIssued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if subscription != nil {
		invoice.SubscriptionID = &subscription.ID
	}

	if err := s.repo.Insert(ctx, s.db, invoice); err != nil {
		return nil, fmt.Errorf("persist invoice %s: %w", number, err)
	}

	s.log.Info("invoice issued",
		zap.String("invoice_number", number),
		zap.String("employer_id", employer.ID.String()),
		zap.Int64("total_amount", totalAmount))

	// 6. Notification, best-effort.
	if err := s.notify(ctx, invoice, billTo, pdf); err != nil {
		s.log.Error("invoice notification failed",
			zap.String("invoice_number", number),
			zap.Error(err))
	}

	return invoice, nil
}

func (s *Service) notify(ctx context.Context, invoice *invoicedomain.Invoice, billTo invoicedomain.BillTo, pdf []byte) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your payment of %s %d.00. Your invoice %s is attached and also available at <a href=%q>%s</a>.</p>",
		billTo.CompanyName,
		invoice.Currency,
		invoice.TotalAmount,
		invoice.InvoiceNumber,
		invoice.PDFURL,
		invoice.PDFURL,
	)
	return s.mailer.Send(ctx, mail.Message{
		To:      billTo.Email,
		Subject: "Your invoice " + invoice.InvoiceNumber,
		Body:    body,
		Attachments: []mail.Attachment{{
			Filename:    invoice.InvoiceNumber + ".pdf",
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})
}

func (s *Service) List(ctx context.Context, employerID snowflake.ID, page pagination.Pagination) (*invoicedomain.ListInvoicesResponse, error) {
	items, err := s.repo.List(ctx, s.db, employerID, page)
	if err != nil {
		return nil, err
	}
	items, pageInfo := pagination.Trim(items, page.Limit(), func(i *invoicedomain.Invoice) snowflake.ID {
		return i.ID
	})
	return &invoicedomain.ListInvoicesResponse{Invoices: items, PageInfo: pageInfo}, nil
}

func (s *Service) GetByNumber(ctx context.Context, employerID snowflake.ID, number string) (*invoicedomain.Invoice, error) {
	number = strings.TrimSpace(number)
	invoice, err := s.repo.FindByNumber(ctx, s.db, employerID, number)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *Service) Void(ctx context.Context, employerID snowflake.ID, number string) (*invoicedomain.Invoice, error) {
	invoice, err := s.GetByNumber(ctx, employerID, number)
	if err != nil {
		return nil, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusVoid {
		return nil, invoicedomain.ErrInvoiceVoided
	}

	if err := s.repo.SetStatus(ctx, s.db, invoice.ID, invoicedomain.InvoiceStatusVoid); err != nil {
		return nil, err
	}
	invoice.Status = invoicedomain.InvoiceStatusVoid

	s.log.Info("invoice voided", zap.String("invoice_number", number))
	return invoice, nil
}
