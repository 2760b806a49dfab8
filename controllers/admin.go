package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"PartyHub/middleware"
	"PartyHub/models/postgres"
	"PartyHub/services/profiles"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
)

type GrantStore interface {
	GrantPro(ctx context.Context, in profiles.GrantInput) (*postgres.ProGrant, error)
	ListGrants(ctx context.Context, limit int) ([]postgres.ProGrant, error)
}

type grantRequest struct {
	UserID    string     `json:"userId"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// @Summary List pro grants
// @Description Most recent manual pro grants first
// @Tags admin
// @Produce json
// @Param limit query int false "How many grants to return (default 50, max 200)"
// @Success 200 {array} postgres.ProGrant
// @Failure 403 {object} object{message=string}
// @Router /api/admin/pro-grants [get]
// @Security ApiKeyAuth
func ListProGrants(store GrantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		grants, err := store.ListGrants(c.Request.Context(), limit)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, grants)
	}
}

// @Summary Grant pro
// @Description Gives a user pro access, optionally until a date, and records who granted it and why
// @Tags admin
// @Accept json
// @Produce json
// @Param grant body grantRequest true "Grant"
// @Success 201 {object} postgres.ProGrant
// @Failure 400 {object} object{message=string}
// @Failure 403 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /api/admin/pro-grants [post]
// @Security ApiKeyAuth
func CreateProGrant(store GrantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := middleware.GetCurrentUser(c)

		var req grantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_request", "Invalid request body"))
			return
		}
		grantee, err := uuid.Parse(req.UserID)
		if err != nil {
			utils.Fail(c, apperror.BadRequest("bad_user_id", "userId must be a user id"))
			return
		}

		grant, err := store.GrantPro(c.Request.Context(), profiles.GrantInput{
			GrantedBy: admin.ID,
			GrantedTo: grantee,
			Reason:    req.Reason,
			ExpiresAt: req.ExpiresAt,
		})
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, grant)
	}
}
