package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/med-schedule-service/internal/repository"
)

// MedicineHandler serves the shared medicine catalogue.  Any authenticated
// user can read the catalogue and add entries; entries are never owned.
type MedicineHandler struct {
	Medicines *repository.MedicineRepo
}

// NewMedicineHandler constructs a MedicineHandler.
func NewMedicineHandler(m *repository.MedicineRepo) *MedicineHandler {
	if m == nil {
		panic("nil repository passed to NewMedicineHandler")
	}
	return &MedicineHandler{Medicines: m}
}

type medicineResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toMedicineResp(m repository.MedicineRecord) medicineResp {
	return medicineResp{ID: m.ID, Name: m.Name, Description: m.Description, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// Create handles POST /v1/medicines.
func (h *MedicineHandler) Create(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	rec := repository.MedicineRecord{Name: body.Name, Description: strings.TrimSpace(body.Description)}
	if err := h.Medicines.Create(c.Request().Context(), &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create medicine failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toMedicineResp(rec)})
}

// Get handles GET /v1/medicines/:id.
func (h *MedicineHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid medicine id"})
	}
	m, err := h.Medicines.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMedicineNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "medicine not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toMedicineResp(m)})
}

// List handles GET /v1/medicines.
func (h *MedicineHandler) List(c echo.Context) error {
	ms, err := h.Medicines.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]medicineResp, 0, len(ms))
	for _, m := range ms {
		items = append(items, toMedicineResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
