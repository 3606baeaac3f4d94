package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paycore-labs/payroll-backend-go/internal/domain/payroll"
	"github.com/paycore-labs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/paycore-labs/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Cycles
	CreateCycle(w http.ResponseWriter, r *http.Request)
	GetCycle(w http.ResponseWriter, r *http.Request)
	ListCycles(w http.ResponseWriter, r *http.Request)
	ProcessCycle(w http.ResponseWriter, r *http.Request)
	UpdateCycleStatus(w http.ResponseWriter, r *http.Request)

	// Payslips
	ListPayslips(w http.ResponseWriter, r *http.Request)
	PayPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslipPDF(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== CYCLES ==========

func (h *payrollHandlerImpl) CreateCycle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	var req payroll.CreateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateCycle(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll cycle created", result)
}

func (h *payrollHandlerImpl) GetCycle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	result, err := h.payrollService.GetCycle(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListCycles(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	query := r.URL.Query()
	filter := payroll.CycleFilter{
		Status: query.Get("status"),
	}
	if year := query.Get("year"); year != "" {
		filter.Year, _ = strconv.Atoi(year)
	}
	if page := query.Get("page"); page != "" {
		filter.Page, _ = strconv.Atoi(page)
	}
	if limit := query.Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}

	result, err := h.payrollService.ListCycles(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
	})
}

func (h *payrollHandlerImpl) ProcessCycle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	result, err := h.payrollService.ProcessCycle(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle processed", result)
}

func (h *payrollHandlerImpl) UpdateCycleStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	var req payroll.UpdateCycleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateCycleStatus(r.Context(), companyID, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	cycleID := chi.URLParam(r, "id")
	if cycleID == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayslipsByCycle(r.Context(), companyID, cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) PayPayslip(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	var req payroll.PayPayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PayPayslip(r.Context(), companyID, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip marked paid", result)
}

func (h *payrollHandlerImpl) DownloadPayslipPDF(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Forbidden(w, "Company context required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	data, err := h.payrollService.RenderPayslipPDF(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.PDF(w, "payslip-"+id+".pdf", data)
}
