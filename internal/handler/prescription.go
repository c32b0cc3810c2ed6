package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/med-schedule-service/internal/model"
	"github.com/iliyamo/med-schedule-service/internal/repository"
)

// PrescriptionHandler manages prescriptions and the medicines attached to
// them.  Every operation is scoped to the authenticated user; reading or
// deleting someone else's prescription yields 403.
type PrescriptionHandler struct {
	Prescriptions *repository.PrescriptionRepo
	Medicines     *repository.MedicineRepo
}

// NewPrescriptionHandler constructs a PrescriptionHandler.
func NewPrescriptionHandler(p *repository.PrescriptionRepo, m *repository.MedicineRepo) *PrescriptionHandler {
	if p == nil || m == nil {
		panic("nil repository passed to NewPrescriptionHandler")
	}
	return &PrescriptionHandler{Prescriptions: p, Medicines: m}
}

// Create handles POST /v1/prescriptions.
func (h *PrescriptionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name         string `json:"name"`
		PrescribedBy string `json:"prescribed_by"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	p := model.Prescription{UserID: userID, Name: body.Name, PrescribedBy: strings.TrimSpace(body.PrescribedBy)}
	if err := h.Prescriptions.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create prescription failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// List handles GET /v1/prescriptions.
func (h *PrescriptionHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ps, err := h.Prescriptions.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ps})
}

// Get handles GET /v1/prescriptions/:id.  The response includes the attached
// medicine links.
func (h *PrescriptionHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prescription id"})
	}
	ctx := c.Request().Context()
	p, err := h.Prescriptions.GetOwned(ctx, id, userID)
	if err != nil {
		switch err {
		case repository.ErrPrescriptionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prescription not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	meds, err := h.Prescriptions.ListMedicines(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": p, "medicines": meds})
}

// AddMedicine handles POST /v1/prescriptions/:id/medicines.  It links a
// catalogue medicine to the prescription with free-form instructions.
func (h *PrescriptionHandler) AddMedicine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prescription id"})
	}
	var body struct {
		MedicineID   uint64 `json:"medicine_id"`
		Instructions string `json:"instructions"`
	}
	if err := c.Bind(&body); err != nil || body.MedicineID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "medicine_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Prescriptions.GetOwned(ctx, id, userID); err != nil {
		switch err {
		case repository.ErrPrescriptionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prescription not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// the medicine itself must exist in the catalogue
	if _, err := h.Medicines.GetByID(ctx, body.MedicineID); err != nil {
		if err == repository.ErrMedicineNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "medicine not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	pm := model.PrescriptionMedicine{PrescriptionID: id, MedicineID: body.MedicineID, Instructions: strings.TrimSpace(body.Instructions)}
	if err := h.Prescriptions.AddMedicine(ctx, &pm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach medicine failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": pm})
}

// Delete handles DELETE /v1/prescriptions/:id.  The row is soft-deleted so
// historical intake logs keep resolving.
func (h *PrescriptionHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid prescription id"})
	}
	if err := h.Prescriptions.SoftDelete(c.Request().Context(), id, userID); err != nil {
		if err == repository.ErrPrescriptionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prescription not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete prescription failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
