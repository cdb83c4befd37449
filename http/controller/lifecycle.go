package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/http/controller/dto"
)

// ToggleEnvironment applies one lifecycle transition to an instance.
// Terminate runs the cleanup sequence first: find the elastic IP, delete the
// DNS record it backs, disassociate and release it, then destroy the
// instance. Cleanup steps are best-effort; their outcomes are reported as
// independent booleans because rollback of applied steps is not attempted.
func (ctrl *Controller) ToggleEnvironment(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LifecycleRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.InstanceID == "" || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "instanceId and action are required"})
		return
	}

	switch req.Action {
	case "start":
		if err := ctrl.Infra.EC2.StartInstance(ctx, req.InstanceID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle] Failed to start %s: %v", req.InstanceID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		ctrl.publishLifecycleEvent(ctx, c, req)
		c.JSON(http.StatusOK, gin.H{"success": true, "action": req.Action, "instanceId": req.InstanceID})

	case "stop":
		if err := ctrl.Infra.EC2.StopInstance(ctx, req.InstanceID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle] Failed to stop %s: %v", req.InstanceID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		ctrl.publishLifecycleEvent(ctx, c, req)
		c.JSON(http.StatusOK, gin.H{"success": true, "action": req.Action, "instanceId": req.InstanceID})

	case "terminate":
		ctrl.terminateEnvironment(c, req)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid action"})
	}
}

func (ctrl *Controller) terminateEnvironment(c *gin.Context, req dto.LifecycleRequestDTO) {
	ctx := c.Request.Context()

	if req.EnvID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "envId is required for terminate"})
		return
	}

	addressReleased := false
	dnsDeleted := false

	addr, err := ctrl.Infra.EC2.FindAddressByInstance(ctx, req.InstanceID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Lifecycle] Failed to look up elastic IP for %s: %v", req.InstanceID, err)
	}

	if addr != nil && addr.PublicIP != "" {
		domain := req.EnvID + "." + ctrl.Config.EnvConfig.DNS.BaseDomain
		if err := ctrl.Infra.Route53.DeleteARecord(ctx, domain, addr.PublicIP); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Lifecycle] Failed to delete DNS record %s: %v", domain, err)
		} else {
			dnsDeleted = true
		}
	}

	if addr != nil && addr.AssociationID != "" {
		if err := ctrl.Infra.EC2.DisassociateAddress(ctx, addr.AssociationID); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Lifecycle] Failed to disassociate address for %s: %v", req.InstanceID, err)
		}
	}

	if addr != nil && addr.AllocationID != "" {
		if err := ctrl.Infra.EC2.ReleaseAddress(ctx, addr.AllocationID); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Lifecycle] Failed to release address for %s: %v", req.InstanceID, err)
		} else {
			addressReleased = true
		}
	}

	if err := ctrl.Infra.EC2.TerminateInstance(ctx, req.InstanceID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle] Failed to terminate %s: %v", req.InstanceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctrl.publishLifecycleEvent(ctx, c, req)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Lifecycle] Terminated %s (env %s, addressReleased=%t, dnsDeleted=%t)",
		req.InstanceID, req.EnvID, addressReleased, dnsDeleted)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"action":     req.Action,
		"instanceId": req.InstanceID,
		"cleaned": gin.H{
			"addressReleased": addressReleased,
			"dnsDeleted":      dnsDeleted,
		},
	})
}

func (ctrl *Controller) publishLifecycleEvent(ctx context.Context, c *gin.Context, req dto.LifecycleRequestDTO) {
	if ctrl.Infra.Produce == nil {
		return
	}
	actor := c.GetString("email")
	if err := ctrl.Infra.Produce.EnvironmentService.PublishLifecycleAction(ctx, req.Action, req.EnvID, req.InstanceID, actor); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Lifecycle] Failed to publish %s event for %s: %v", req.Action, req.InstanceID, err)
	}
}
