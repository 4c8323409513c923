package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/greenloop/ecoscan/ecoscan/ledger"
	"github.com/greenloop/ecoscan/ecoscan/scanner"
	"github.com/greenloop/ecoscan/ecoscan/services"
	"github.com/greenloop/ecoscan/server/models"
	"github.com/greenloop/ecoscan/server/utils"
)

type manualScanRequest struct {
	Barcode string `json:"barcode"`
}

type startSessionRequest struct {
	CameraAvailable bool `json:"camera_available"`
}

type detectRequest struct {
	Barcode string `json:"barcode"`
}

// ManualScan credits a manually entered barcode. Unknown barcodes are
// a user-visible miss; manual entry never falls back to a demo
// product.
func (a *App) ManualScan(c *fiber.Ctx) error {
	userID, _ := utils.UserID(c)

	var req manualScanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Barcode == "" {
		return utils.SendBadRequest(c, "Barcode is required", nil)
	}

	result, err := a.Scanner.ManualScan(userID, req.Barcode)
	if err != nil {
		return sendCreditError(c, err)
	}
	return utils.SendSuccess(c, models.NewCreditView(result), "Scan recorded")
}

// StartScanSession begins a camera scan session.
func (a *App) StartScanSession(c *fiber.Ctx) error {
	userID, _ := utils.UserID(c)

	req := startSessionRequest{CameraAvailable: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
	}

	session, err := a.Scanner.StartCamera(userID, req.CameraAvailable)
	if err != nil {
		if errors.Is(err, scanner.ErrActiveSession) {
			return utils.SendConflict(c, "SESSION_ACTIVE", "A scan session is already running")
		}
		return utils.SendInternalServerError(c, "SESSION_START_FAILED", "Could not start scan session")
	}
	return utils.SendCreated(c, models.NewScanSessionView(session.Snapshot()), "Scan session started")
}

// GetScanSession returns the session's current state for polling.
func (a *App) GetScanSession(c *fiber.Ctx) error {
	session, err := a.Scanner.Get(c.Params("id"))
	if err != nil {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}
	if userID, _ := utils.UserID(c); session.UserID != userID {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}
	return utils.SendSuccess(c, models.NewScanSessionView(session.Snapshot()), "")
}

// DeliverDetection feeds a client-decoded barcode into the session.
func (a *App) DeliverDetection(c *fiber.Ctx) error {
	var req detectRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Barcode) == "" {
		return utils.SendBadRequest(c, "Barcode is required", nil)
	}

	sessionID := c.Params("id")
	session, err := a.Scanner.Get(sessionID)
	if err != nil {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}
	if userID, _ := utils.UserID(c); session.UserID != userID {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}

	accepted, err := a.Scanner.Deliver(sessionID, strings.TrimSpace(req.Barcode))
	if err != nil {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}

	view := models.NewScanSessionView(session.Snapshot())
	if !accepted {
		return utils.SendSuccess(c, view, "Detection ignored; session already resolved")
	}
	return utils.SendSuccess(c, view, "Detection accepted")
}

// CancelScanSession cancels a session; cancelling a finished session
// succeeds without effect.
func (a *App) CancelScanSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	session, err := a.Scanner.Get(sessionID)
	if err != nil {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}
	if userID, _ := utils.UserID(c); session.UserID != userID {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}

	if err := a.Scanner.Cancel(sessionID); err != nil {
		return utils.SendNotFound(c, "SESSION_NOT_FOUND", "Scan session not found")
	}
	return utils.SendSuccess(c, models.NewScanSessionView(session.Snapshot()), "Scan session cancelled")
}

// sendCreditError maps ledger and catalog failures onto API codes. No
// credit failure is ever swallowed; the user sees a success total or
// an explicit error.
func sendCreditError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return utils.SendNotFound(c, "PRODUCT_NOT_FOUND", "This product is not in our database yet")
	case errors.Is(err, ledger.ErrProfileNotFound):
		return utils.SendInternalServerError(c, "PROFILE_NOT_FOUND", "Your profile could not be loaded")
	case errors.Is(err, ledger.ErrConflict):
		return utils.SendConflict(c, "LEDGER_CONFLICT", "Your score is being updated; please retry")
	case errors.Is(err, ledger.ErrLedgerWrite):
		return utils.SendInternalServerError(c, "LEDGER_WRITE_FAILED", "Could not record the scan")
	default:
		return utils.SendInternalServerError(c, "SCAN_FAILED", "Scan failed")
	}
}
