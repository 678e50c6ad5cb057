package handler

import (
	"net/http"
	"strconv"
	"strings"

	"salesdesk/internal/config"
	"salesdesk/internal/middleware"
	"salesdesk/internal/model"
	"salesdesk/internal/service"
	"salesdesk/pkg/pagination"
	"salesdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	salesService  service.SalesService
	filterService service.FilterOptionsService
	paging        config.PagingConfig
	authSecret    []byte
}

func NewSalesHandler(salesService service.SalesService, filterService service.FilterOptionsService, paging config.PagingConfig, authSecret []byte) *SalesHandler {
	return &SalesHandler{
		salesService:  salesService,
		filterService: filterService,
		paging:        paging,
		authSecret:    authSecret,
	}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	salesGroup := router.Group("/api/sales")
	{
		salesGroup.GET("", h.GetSales)
		salesGroup.GET("/filters", h.GetFilterOptions)
		salesGroup.POST("/filters/invalidate", middleware.RequireAuth(h.authSecret), h.InvalidateFilterOptions)
	}
}

// @Summary      List sales
// @Description  Search, filter, sort and paginate sales records. Summary totals cover every matching record, not only the returned page.
// @Tags         Sales
// @Produce      json
// @Param        search          query  string    false  "Case-insensitive substring of customer name or phone number"
// @Param        sortBy          query  string    false  "Sort key"  Enums(date, quantity, customerName)  default(date)
// @Param        sortOrder       query  string    false  "Sort direction"  Enums(asc, desc)  default(desc)
// @Param        page            query  int       false  "Page number, clamped into range"  default(1)
// @Param        pageSize        query  int       false  "Page size"  default(10)
// @Param        regions         query  []string  false  "Customer regions"  collectionFormat(multi)
// @Param        genders         query  []string  false  "Genders"  collectionFormat(multi)
// @Param        categories      query  []string  false  "Product categories"  collectionFormat(multi)
// @Param        tags            query  []string  false  "Tags, matched case-insensitively"  collectionFormat(multi)
// @Param        paymentMethods  query  []string  false  "Payment methods"  collectionFormat(multi)
// @Param        ageMin          query  int       false  "Minimum age, inclusive"
// @Param        ageMax          query  int       false  "Maximum age, inclusive"
// @Param        dateStart       query  string    false  "First day, YYYY-MM-DD"
// @Param        dateEnd         query  string    false  "Last day, YYYY-MM-DD, inclusive"
// @Success      200  {object}  response.Response{data=[]model.SalesRecord,pagination=pagination.Meta,summary=model.Summary}
// @Failure      429  {object}  response.ErrorResponse  "Rate limit exceeded"
// @Failure      503  {object}  response.ErrorResponse  "Data source unavailable"
// @Failure      500  {object}  response.ErrorResponse  "Internal server error"
// @Router       /api/sales [get]
func (h *SalesHandler) GetSales(c *gin.Context) {
	page, err := h.salesService.GetSales(c.Request.Context(), h.parseQuery(c))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Page(page.Data, page.Pagination, page.Summary))
}

// @Summary      Filter options
// @Description  Distinct values and ranges a client can filter sales on. Built once and cached until invalidated.
// @Tags         Sales
// @Produce      json
// @Success      200  {object}  response.Response{data=model.FilterOptions}
// @Failure      503  {object}  response.ErrorResponse  "Data source unavailable"
// @Failure      500  {object}  response.ErrorResponse  "Internal server error"
// @Router       /api/sales/filters [get]
func (h *SalesHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.filterService.GetFilterOptions(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(opts))
}

// @Summary      Invalidate filter options
// @Description  Drops the cached filter catalog after the dataset changed. The next request rebuilds it.
// @Tags         Sales
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.ErrorResponse  "Unauthorized"
// @Security     BearerAuth
// @Router       /api/sales/filters/invalidate [post]
func (h *SalesHandler) InvalidateFilterOptions(c *gin.Context) {
	h.filterService.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(gin.H{"invalidated": true}))
}

// parseQuery turns the query string into a typed SalesQuery. Nothing here
// fails the request: unusable values fall back to their defaults.
func (h *SalesHandler) parseQuery(c *gin.Context) model.SalesQuery {
	p := pagination.Parse(c, h.paging.DefaultPageSize, h.paging.MaxPageSize)

	q := model.SalesQuery{
		Search: c.Query("search"),
		Sort:   model.ParseSortSpec(c.Query("sortBy"), c.Query("sortOrder")),
		Page:   model.PageRequest{Page: p.Page, PageSize: p.PageSize},
		Filters: model.FilterSpec{
			Regions:        queryList(c, "regions"),
			Genders:        queryList(c, "genders"),
			Categories:     queryList(c, "categories"),
			Tags:           queryList(c, "tags"),
			PaymentMethods: queryList(c, "paymentMethods"),
			DateRange:      model.NewDateRange(c.Query("dateStart"), c.Query("dateEnd")),
		},
	}

	ageMin, ageMax := queryInt(c, "ageMin"), queryInt(c, "ageMax")
	if ageMin != nil || ageMax != nil {
		q.Filters.AgeRange = &model.IntRange{Min: ageMin, Max: ageMax}
	}
	return q
}

// queryList merges repeated "key" and "key[]" parameters, dropping blanks.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, values := range [][]string{c.QueryArray(key), c.QueryArray(key + "[]")} {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func queryInt(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &n
}
