package formControllers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/fruitika/storefront-api/mailer"
	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxResumeBytes = 5 << 20

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var (
	ErrResumeTooLarge = errors.New("resume must be 5MB or smaller")
	ErrResumeType     = errors.New("resume must be a PDF or Word document")
	errResumeRead     = errors.New("failed to read resume")
)

// FormNotifier sends the admin and submitter emails for a form.
type FormNotifier interface {
	ContactReceived(ctx context.Context, c *models.Contact) error
	QuoteReceived(ctx context.Context, q *models.Quote) error
	CareerReceived(ctx context.Context, c *models.Career, resume *mailer.Attachment) error
}

// -------- Request Structs --------

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message" binding:"required"`
}

type QuoteInput struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Company          string `json:"company"`
	Product          string `json:"product" binding:"required"`
	Quantity         string `json:"quantity" binding:"required"`
	DeliveryLocation string `json:"delivery_location" binding:"required"`
	Message          string `json:"message"`
}

type CareerInput struct {
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	Phone       string `form:"phone"`
	Position    string `form:"position" binding:"required"`
	Experience  string `form:"experience" binding:"required"`
	Location    string `form:"location"`
	CoverLetter string `form:"cover_letter"`
}

// -------- Handlers --------

// SubmitContact stores a contact message. Mail failures are logged only;
// the submission is already saved.
func SubmitContact(db *gorm.DB, notifier FormNotifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ContactInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and message are required"})
			return
		}

		contact := models.Contact{
			Name:    strings.TrimSpace(in.Name),
			Email:   strings.TrimSpace(in.Email),
			Phone:   models.OptionalString(in.Phone),
			Company: models.OptionalString(in.Company),
			Message: in.Message,
			Status:  models.SubmissionNew,
		}
		if err := db.WithContext(c.Request.Context()).Create(&contact).Error; err != nil {
			log.Error("save contact failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit contact form"})
			return
		}

		if err := notifier.ContactReceived(c.Request.Context(), &contact); err != nil {
			log.Error("contact email failed", "contact_id", contact.ID, "error", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Message sent successfully! We will get back to you soon.",
			"id":      contact.ID,
		})
	}
}

func SubmitQuote(db *gorm.DB, notifier FormNotifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in QuoteInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, product, quantity, and delivery location are required"})
			return
		}

		quote := models.Quote{
			Name:        strings.TrimSpace(in.Name),
			Email:       strings.TrimSpace(in.Email),
			Phone:       models.OptionalString(in.Phone),
			Company:     models.OptionalString(in.Company),
			Product:     in.Product,
			Quantity:    in.Quantity,
			Destination: in.DeliveryLocation,
			Message:     models.OptionalString(in.Message),
			Status:      models.SubmissionNew,
		}
		if err := db.WithContext(c.Request.Context()).Create(&quote).Error; err != nil {
			log.Error("save quote failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit quote request"})
			return
		}

		if err := notifier.QuoteReceived(c.Request.Context(), &quote); err != nil {
			log.Error("quote email failed", "quote_id", quote.ID, "error", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Quote request submitted successfully! We will send you a quote within 24 hours.",
			"id":      quote.ID,
		})
	}
}

// SubmitCareer takes a multipart application with an optional resume.
// Only the file name is stored; the file goes to the admin by email.
func SubmitCareer(db *gorm.DB, notifier FormNotifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeBytes+1<<20)

		var in CareerInput
		if err := c.ShouldBind(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, position, and experience are required"})
			return
		}

		resume, err := readResume(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		career := models.Career{
			Name:        strings.TrimSpace(in.Name),
			Email:       strings.TrimSpace(in.Email),
			Phone:       models.OptionalString(in.Phone),
			Position:    in.Position,
			Experience:  in.Experience,
			Location:    models.OptionalString(in.Location),
			CoverLetter: models.OptionalString(in.CoverLetter),
			Status:      models.SubmissionNew,
		}
		if resume != nil {
			career.ResumeName = &resume.Name
		}
		if err := db.WithContext(c.Request.Context()).Create(&career).Error; err != nil {
			log.Error("save career application failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
			return
		}

		if err := notifier.CareerReceived(c.Request.Context(), &career, resume); err != nil {
			log.Error("career email failed", "career_id", career.ID, "error", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Application submitted successfully! We will review it and get back to you.",
			"id":      career.ID,
		})
	}
}

func readResume(c *gin.Context) (*mailer.Attachment, error) {
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errResumeRead
	}
	if fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > maxResumeBytes {
		return nil, ErrResumeTooLarge
	}
	name := filepath.Base(fh.Filename)
	if !resumeExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, ErrResumeType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errResumeRead
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errResumeRead
	}
	return &mailer.Attachment{Name: name, Data: data}, nil
}
