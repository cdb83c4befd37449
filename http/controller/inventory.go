package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/entity"
	"github.com/prezm/poc-orchestrator/utils"
)

const inventoryCacheTTL = 30 * time.Second

// ListEnvironments returns the caller's instances (filtered by the CreatedBy
// tag), each joined with its stored admin password for display.
func (ctrl *Controller) ListEnvironments(c *gin.Context) {
	ctx := c.Request.Context()

	email, err := utils.GetEmailFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized")
		return
	}

	region := c.Query("region")
	cacheKey := "inventory:" + email + ":" + region

	if ctrl.Infra.Redis != nil {
		var cached []entity.InventoryItem
		if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
			ctrl.joinAdminPasswords(ctx, cached)
			utils.JSON200(c, gin.H{"success": true, "instances": cached})
			return
		}
	}

	items, err := ctrl.Infra.EC2.ListInstancesByCreator(ctx, email, region)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Inventory] Failed to list instances for %s: %v", email, err)
		utils.JSON500(c, err.Error())
		return
	}

	// Cache before the credential join: passwords stay in SecureString storage
	// and are re-joined on every hit.
	if ctrl.Infra.Redis != nil {
		if err := ctrl.Infra.Redis.Set(ctx, cacheKey, items, inventoryCacheTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Inventory] Failed to cache inventory for %s: %v", email, err)
		}
	}

	ctrl.joinAdminPasswords(ctx, items)

	utils.JSON200(c, gin.H{"success": true, "instances": items})
}

func (ctrl *Controller) joinAdminPasswords(ctx context.Context, items []entity.InventoryItem) {
	for i := range items {
		if items[i].EnvID == "" {
			continue
		}
		password, found, err := ctrl.Repository.CredentialRepo.GetPassword(ctx, items[i].EnvID)
		if err != nil || !found {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Inventory] Failed to fetch password for %s", items[i].EnvID)
			continue
		}
		items[i].AdminPassword = password
	}
}
