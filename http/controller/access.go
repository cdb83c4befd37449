package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/http/controller/dto"
	"github.com/prezm/poc-orchestrator/utils"
)

// ListAccessEntries returns the full allow-list.
func (ctrl *Controller) ListAccessEntries(c *gin.Context) {
	ctx := c.Request.Context()

	entries, err := ctrl.Repository.AccessRepo.List(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Access] Failed to list access entries: %v", err)
		utils.JSON500(c, err.Error())
		return
	}

	utils.JSON200(c, gin.H{"success": true, "users": entries})
}

// AddAccessEntry appends a new allowed identity. Adding an existing email
// succeeds without changing the list. Admin-only.
func (ctrl *Controller) AddAccessEntry(c *gin.Context) {
	ctx := c.Request.Context()

	if !ctrl.requireAdmin(c) {
		return
	}

	var req dto.AddAccessRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Email required")
		return
	}

	entries, err := ctrl.Repository.AccessRepo.Add(ctx, req.Email, req.IsAdmin)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Access] Failed to add %s: %v", req.Email, err)
		utils.JSON500(c, err.Error())
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Access] Added %s (admin=%t)", req.Email, req.IsAdmin)
	utils.JSON200(c, gin.H{"success": true, "users": entries})
}

// RemoveAccessEntry deletes an identity from the allow-list. Removing an
// absent email is a no-op. Admin-only.
func (ctrl *Controller) RemoveAccessEntry(c *gin.Context) {
	ctx := c.Request.Context()

	if !ctrl.requireAdmin(c) {
		return
	}

	var req dto.RemoveAccessRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Email required")
		return
	}

	entries, err := ctrl.Repository.AccessRepo.Remove(ctx, req.Email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Access] Failed to remove %s: %v", req.Email, err)
		utils.JSON500(c, err.Error())
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Access] Removed %s", req.Email)
	utils.JSON200(c, gin.H{"success": true, "users": entries})
}

// requireAdmin answers the request itself and returns false when the caller
// is missing or not an admin in the access registry.
func (ctrl *Controller) requireAdmin(c *gin.Context) bool {
	ctx := c.Request.Context()

	email, err := utils.GetEmailFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized")
		return false
	}

	entry, err := ctrl.Repository.AccessRepo.Find(ctx, email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Access] Failed to check admin flag for %s: %v", email, err)
		utils.JSON500(c, err.Error())
		return false
	}
	if entry == nil || !entry.IsAdmin {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Access] %s attempted an admin-only operation", email)
		utils.JSON403(c, "Admin access required")
		return false
	}
	return true
}
