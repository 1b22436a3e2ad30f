package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"idea-portfolio-api/config"
	"idea-portfolio-api/services"
)

type vendorContractRequest struct {
	ProjectID      *uint            `json:"project_id"`
	VendorName     *string          `json:"vendor_name"`
	ContractNumber *string          `json:"contract_number"`
	ContractValue  *decimal.Decimal `json:"contract_value"`
	StartDate      *string          `json:"start_date"`
	EndDate        *string          `json:"end_date"`
	Status         *string          `json:"status"`
	ContactName    *string          `json:"contact_name"`
	ContactEmail   *string          `json:"contact_email"`
	ContactPhone   *string          `json:"contact_phone"`
	Notes          *string          `json:"notes"`
}

func (r vendorContractRequest) input() (services.VendorContractInput, error) {
	start, err := parseDateField("start_date", r.StartDate)
	if err != nil {
		return services.VendorContractInput{}, err
	}
	end, err := parseDateField("end_date", r.EndDate)
	if err != nil {
		return services.VendorContractInput{}, err
	}
	return services.VendorContractInput{
		ProjectID:      r.ProjectID,
		VendorName:     r.VendorName,
		ContractNumber: r.ContractNumber,
		ContractValue:  r.ContractValue,
		StartDate:      start,
		EndDate:        end,
		Status:         r.Status,
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		ContactPhone:   r.ContactPhone,
		Notes:          r.Notes,
	}, nil
}

// GET /api/v1/vendor-contracts
func ListVendorContracts(c *gin.Context) {
	var projectID *uint
	if raw := c.Query("project_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid project_id")
			return
		}
		id := uint(v)
		projectID = &id
	}
	limit := parseIntOrDefault(c.Query("limit"), 50)
	offset := parseIntOrDefault(c.Query("offset"), 0)

	items, total, err := services.NewVendorContractService(config.DB).List(c.Request.Context(), projectID, c.Query("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "total": total})
}

// GET /api/v1/vendor-contracts/:id
func GetVendorContract(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	contract, err := services.NewVendorContractService(config.DB).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

// POST /api/v1/vendor-contracts
func CreateVendorContract(c *gin.Context) {
	var req vendorContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	contract, err := services.NewVendorContractService(config.DB).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": contract})
}

// PUT /api/v1/vendor-contracts/:id
func UpdateVendorContract(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req vendorContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err)
		return
	}
	contract, err := services.NewVendorContractService(config.DB).Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": contract})
}

// DELETE /api/v1/vendor-contracts/:id
func DeleteVendorContract(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := services.NewVendorContractService(config.DB).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vendor contract deleted"})
}
