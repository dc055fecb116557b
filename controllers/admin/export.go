package adminController

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fruitika/storefront-api/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const timeLayout = "2006-01-02 15:04:05"

type OrderLister interface {
	ListAll(ctx context.Context) ([]models.Order, error)
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

func addRow(sheet *xlsx.Sheet, values ...any) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeWorkbook(c *gin.Context, file *xlsx.File, name string) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
}

// ExportOrders downloads every order as one spreadsheet row.
func ExportOrders(orders OrderLister, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context())
		if err != nil {
			log.Error("export orders failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		addHeader(sheet,
			"TrackingID", "OrderID", "CreatedAt", "Customer", "Email", "Phone",
			"City", "Country", "Items", "Subtotal", "Shipping", "Tax", "Total",
			"Currency", "Status", "PaymentStatus", "PaymentRef",
		)
		for _, o := range list {
			items := make([]string, len(o.Items))
			for i, it := range o.Items {
				items[i] = fmt.Sprintf("%s x%d", it.ProductName, it.Quantity)
			}
			addRow(sheet,
				o.TrackingID, o.ID, o.CreatedAt.Format(timeLayout),
				o.Customer.FullName(), o.Customer.Email, o.Customer.Phone,
				o.Customer.City, o.Customer.Country, strings.Join(items, ", "),
				o.Subtotal, o.Shipping, o.Tax, o.Total,
				o.Currency, string(o.Status), string(o.PaymentStatus), o.PaymentRef,
			)
		}

		writeWorkbook(c, file, "orders")
	}
}

// ExportSubmissions downloads contacts, quotes and careers, one sheet each.
func ExportSubmissions(db *gorm.DB, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contacts []models.Contact
		var quotes []models.Quote
		var careers []models.Career
		for _, q := range []struct {
			dest any
			name string
		}{{&contacts, "contacts"}, {&quotes, "quotes"}, {&careers, "careers"}} {
			if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(q.dest).Error; err != nil {
				log.Error("export submissions failed", "table", q.name, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + q.name})
				return
			}
		}

		file := xlsx.NewFile()
		contactSheet, err := file.AddSheet("Contacts")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}
		addHeader(contactSheet, "ID", "Name", "Email", "Phone", "Company", "Message", "Status", "CreatedAt")
		for _, s := range contacts {
			addRow(contactSheet, s.ID, s.Name, s.Email, deref(s.Phone), deref(s.Company),
				s.Message, string(s.Status), s.CreatedAt.Format(timeLayout))
		}

		quoteSheet, err := file.AddSheet("Quotes")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}
		addHeader(quoteSheet, "ID", "Name", "Email", "Phone", "Company", "Product", "Quantity",
			"Destination", "Message", "Status", "CreatedAt")
		for _, s := range quotes {
			addRow(quoteSheet, s.ID, s.Name, s.Email, deref(s.Phone), deref(s.Company), s.Product,
				s.Quantity, s.Destination, deref(s.Message), string(s.Status), s.CreatedAt.Format(timeLayout))
		}

		careerSheet, err := file.AddSheet("Careers")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}
		addHeader(careerSheet, "ID", "Name", "Email", "Phone", "Position", "Experience", "Location",
			"CoverLetter", "Resume", "Status", "CreatedAt")
		for _, s := range careers {
			addRow(careerSheet, s.ID, s.Name, s.Email, deref(s.Phone), s.Position, s.Experience,
				deref(s.Location), deref(s.CoverLetter), deref(s.ResumeName), string(s.Status),
				s.CreatedAt.Format(timeLayout))
		}

		writeWorkbook(c, file, "submissions")
	}
}
