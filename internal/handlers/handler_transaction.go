package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
)

// transactionHandler handles HTTP requests related to double-entry postings.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// RegisterTransactionRoutes registers routes related to postings. Reads are
// open to every authenticated role; posting and reversal happen inside the
// caller's manage group.
func RegisterTransactionRoutes(readGroup *gin.RouterGroup, manageGroup *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := readGroup.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transaction_id", h.getTransaction)
	}

	manage := manageGroup.Group("/transactions")
	{
		manage.POST("", h.postTransaction)
		manage.POST("/:transaction_id/reverse", h.reverseTransaction)
	}
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Validates and posts a double-entry transaction, applying balance deltas to both accounts atomically.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.APIResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input or inactive account"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Failure 500 {object} dto.APIResponse "Failed to post transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostTransaction", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to post transaction",
		slog.String("debit_account_id", req.DebitAccountID),
		slog.String("credit_account_id", req.CreditAccountID))

	txn, err := h.transactionService.PostTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToTransactionResponse(txn)))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a single posting by ID.
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.APIResponse{data=dto.TransactionResponse}
// @Failure 404 {object} dto.APIResponse "Transaction not found"
// @Failure 500 {object} dto.APIResponse "Failed to get transaction"
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("transaction_id")

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.ToTransactionResponse(txn)))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a token-paginated list of postings, optionally filtered by account and date range.
// @Tags transactions
// @Produce json
// @Param accountID query string false "Filter to postings touching this account on either side"
// @Param fromDate query string false "Transaction date lower bound (YYYY-MM-DD)"
// @Param toDate query string false "Transaction date upper bound (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.APIResponse{data=dto.ListTransactionsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 500 {object} dto.APIResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		respondBindingError(c, err)
		return
	}

	page, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(page))
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts a compensating transaction with debit and credit swapped. The original posting is never mutated.
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID to reverse"
// @Success 201 {object} dto.APIResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.APIResponse "Inactive account"
// @Failure 404 {object} dto.APIResponse "Transaction not found"
// @Failure 500 {object} dto.APIResponse "Failed to reverse transaction"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse("Unauthorized"))
		return
	}

	logger.Info("Received request to reverse transaction", slog.String("transaction_id", transactionID))

	reversal, err := h.transactionService.ReverseTransaction(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(dto.ToTransactionResponse(reversal)))
}
