package handlers

import (
	"github.com/gofiber/fiber/v2"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"
)

// DictionaryHandler serves school and major reference data
type DictionaryHandler struct {
	dict *services.DictionaryService
}

// NewDictionaryHandler creates a new dictionary handler
func NewDictionaryHandler(dict *services.DictionaryService) *DictionaryHandler {
	return &DictionaryHandler{dict: dict}
}

// ListSchools lists schools
// @Summary List schools
// @Tags Dictionary
// @Produce json
// @Param province query string false "Province"
// @Param city query string false "City"
// @Param keyword query string false "Part of the school name"
// @Success 200 {object} response.Response
// @Router /dict/schools [get]
func (h *DictionaryHandler) ListSchools(c *fiber.Ctx) error {
	schools, err := h.dict.ListSchools(c.UserContext(), repositories.SchoolFilter{
		Province: c.Query("province"),
		City:     c.Query("city"),
		Keyword:  c.Query("keyword"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Schools retrieved", mapSlice(schools, toSchoolResponse))
}

// GetSchool returns a school
// @Summary Get school
// @Tags Dictionary
// @Produce json
// @Param id path int true "School ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /dict/schools/{id} [get]
func (h *DictionaryHandler) GetSchool(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	school, err := h.dict.GetSchool(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "School retrieved", toSchoolResponse(school))
}

// ListProvinces lists the provinces that have schools
// @Summary List provinces
// @Tags Dictionary
// @Produce json
// @Success 200 {object} response.Response
// @Router /dict/provinces [get]
func (h *DictionaryHandler) ListProvinces(c *fiber.Ctx) error {
	provinces, err := h.dict.ListProvinces(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Provinces retrieved", provinces)
}

// ListCities lists the cities that have schools
// @Summary List cities
// @Tags Dictionary
// @Produce json
// @Param province query string false "Province"
// @Success 200 {object} response.Response
// @Router /dict/cities [get]
func (h *DictionaryHandler) ListCities(c *fiber.Ctx) error {
	cities, err := h.dict.ListCities(c.UserContext(), c.Query("province"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Cities retrieved", cities)
}

// ListMajors lists majors. Without school_id the general majors are returned;
// a keyword searches across all schools.
// @Summary List majors
// @Tags Dictionary
// @Produce json
// @Param school_id query int false "School ID"
// @Param keyword query string false "Part of the major name"
// @Success 200 {object} response.Response
// @Router /dict/majors [get]
func (h *DictionaryHandler) ListMajors(c *fiber.Ctx) error {
	filter := repositories.MajorFilter{Keyword: c.Query("keyword")}
	if raw := c.Query("school_id"); raw != "" {
		schoolID, err := parseID(raw, "school_id")
		if err != nil {
			return response.FromError(c, err)
		}
		filter.SchoolID = &schoolID
	}

	majors, err := h.dict.ListMajors(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Majors retrieved", mapSlice(majors, toMajorResponse))
}

// ListMajorCategories lists the major categories
// @Summary List major categories
// @Tags Dictionary
// @Produce json
// @Success 200 {object} response.Response
// @Router /dict/major-categories [get]
func (h *DictionaryHandler) ListMajorCategories(c *fiber.Ctx) error {
	categories, err := h.dict.ListMajorCategories(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Major categories retrieved", categories)
}

// CreateSchool adds a school
// @Summary Create school
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body services.CreateSchoolInput true "School"
// @Success 201 {object} response.Response
// @Router /admin/dict/schools [post]
func (h *DictionaryHandler) CreateSchool(c *fiber.Ctx) error {
	var req services.CreateSchoolInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	school, err := h.dict.CreateSchool(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "School created", toSchoolResponse(school))
}

// CreateMajor adds a major
// @Summary Create major
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param body body services.CreateMajorInput true "Major"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/dict/majors [post]
func (h *DictionaryHandler) CreateMajor(c *fiber.Ctx) error {
	var req services.CreateMajorInput
	if err := parseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}
	major, err := h.dict.CreateMajor(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Major created", toMajorResponse(major))
}
