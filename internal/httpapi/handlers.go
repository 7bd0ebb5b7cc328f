package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"employeePortal/internal/portal"
	"employeePortal/models"
	"employeePortal/service"
)

// Handler serves the JSON API over a Portal.
type Handler struct {
	portal *portal.Portal
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetBody struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if !bind(c, &body) {
		return
	}
	out, err := h.portal.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Register(c *gin.Context) {
	var body service.RegisterInput
	if !bind(c, &body) {
		return
	}
	out, err := h.portal.Register(c.Request.Context(), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.portal.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.portal.Me(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.portal.Options())
}

func (h *Handler) MyRequests(c *gin.Context) {
	d, err := h.portal.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) SubmitLeave(c *gin.Context) {
	var d models.LeaveDetails
	if !bind(c, &d) {
		return
	}
	r, err := h.portal.SubmitLeave(c.Request.Context(), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": r})
}

func (h *Handler) SubmitOvertime(c *gin.Context) {
	var d models.OvertimeDetails
	if !bind(c, &d) {
		return
	}
	r, err := h.portal.SubmitOvertime(c.Request.Context(), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": r})
}

func (h *Handler) ListRequests(c *gin.Context) {
	reqs, err := h.portal.Review(c.Request.Context(), models.RequestStatus(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, models.RequestStatusApproved)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, models.RequestStatusRejected)
}

func (h *Handler) decide(c *gin.Context, st models.RequestStatus) {
	d, err := h.portal.Decide(c.Request.Context(), c.Param("id"), st)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.portal.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) Seed(c *gin.Context) {
	n, err := h.portal.SeedDemoData(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usersAdded": n})
}

func (h *Handler) Reset(c *gin.Context) {
	var body resetBody
	if c.Request.ContentLength != 0 && !bind(c, &body) {
		return
	}
	if err := h.portal.Reset(c.Request.Context(), body.Confirm); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeError renders a portal error as {"error": message} with the matching HTTP status.
func writeError(c *gin.Context, err error) {
	st, _ := status.FromError(err)
	c.JSON(httpStatus(st.Code()), gin.H{"error": st.Message()})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition, codes.AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
