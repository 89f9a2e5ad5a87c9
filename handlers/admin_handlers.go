// api/handlers/admin_handlers.go
package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"spellbee/api/export"
	"spellbee/api/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandlers struct {
	Sessions      store.SessionStore
	AdminPassword string
}

func NewAdminHandlers(sessions store.SessionStore, adminPassword string) *AdminHandlers {
	return &AdminHandlers{
		Sessions:      sessions,
		AdminPassword: adminPassword,
	}
}

// ExportSessions handles GET /api/admin/export?password=… and streams
// the whole session table as an Excel download. A bad password returns
// 401 without touching the store.
func (h *AdminHandlers) ExportSessions(c *gin.Context) {
	if !h.passwordValid(c.Query("password")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListSessions(ctx)
	if err != nil {
		log.Printf("Error listing sessions for export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export sessions"})
		return
	}

	workbook, err := export.SessionsWorkbook(sessions)
	if err != nil {
		log.Printf("Error rendering session export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export sessions"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, workbook.Bytes())
}

// passwordValid checks the supplied password against the configured
// secret. A bcrypt hash in ADMIN_PASSWORD is compared as a hash;
// anything else is compared in constant time. An empty configured
// secret disables the export entirely.
func (h *AdminHandlers) passwordValid(supplied string) bool {
	if h.AdminPassword == "" || supplied == "" {
		return false
	}
	if strings.HasPrefix(h.AdminPassword, "$2a$") || strings.HasPrefix(h.AdminPassword, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(h.AdminPassword), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.AdminPassword), []byte(supplied)) == 1
}
