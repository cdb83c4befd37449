package controller

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prezm/poc-orchestrator/http/controller/dto"
	"github.com/prezm/poc-orchestrator/infra"
	"github.com/prezm/poc-orchestrator/repository"
	"github.com/prezm/poc-orchestrator/userdata"
	"github.com/prezm/poc-orchestrator/utils"
)

// CreateEnvironment provisions one POC environment: allocate the next
// environment id, store admin credentials, render the bootstrap script and
// launch the instance. The counter is committed only after EC2 confirms the
// instance, so a failed launch leaves the identifier free for retry.
func (ctrl *Controller) CreateEnvironment(c *gin.Context) {
	ctx := c.Request.Context()

	email, err := utils.GetEmailFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Caller identity missing from context")
		utils.JSON401(c, "Unauthorized")
		return
	}

	var req dto.CreateEnvironmentRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to bind create request: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if req.ClientLabel == "" {
		utils.JSON400(c, "clientLabel is required")
		return
	}

	entry, err := ctrl.Repository.AccessRepo.Find(ctx, email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to check access registry: %v", err)
		utils.JSON500(c, err.Error())
		return
	}
	if entry == nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Environment] %s is not allowed to create environments", email)
		utils.JSON403(c, "Not allowed to create environments")
		return
	}

	region := req.Region
	if region == "" {
		region = ctrl.Config.EnvConfig.AWS.Region
	}

	envID, counterValue, err := ctrl.Repository.CounterRepo.NextID(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to allocate environment id: %v", err)
		utils.JSON500(c, err.Error())
		return
	}

	credential, err := ctrl.Repository.CredentialRepo.Provision(ctx, envID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to provision credentials for %s: %v", envID, err)
		utils.JSON500(c, err.Error())
		return
	}

	script, err := userdata.Render(userdata.Params{
		EnvID:        envID,
		Username:     credential.Username,
		Password:     credential.Password,
		Region:       region,
		BaseDomain:   ctrl.Config.EnvConfig.DNS.BaseDomain,
		HostedZoneID: ctrl.Config.EnvConfig.DNS.HostedZoneID,
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to render bootstrap script for %s: %v", envID, err)
		utils.JSON500(c, err.Error())
		return
	}

	createdDate := time.Now().UTC()
	runReq := infra.RunEnvironmentRequest{
		EnvID:            envID,
		Region:           req.Region,
		ClientLabel:      req.ClientLabel,
		CreatedBy:        email,
		CreatedDate:      createdDate,
		ImageID:          req.ImageRef,
		InstanceType:     req.InstanceSize,
		SecurityGroupIDs: req.SecurityGroupIDs,
		SubnetID:         req.NetworkPlacement,
		MinCount:         req.MinCount,
		MaxCount:         req.MaxCount,
		UserDataBase64:   userdata.Encode(script),
	}
	runReq.DefaultsFromConfig(ctrl.Config.EnvConfig)

	instances, err := ctrl.Infra.EC2.RunEnvironmentInstance(ctx, runReq)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to launch instance for %s: %v", envID, err)
		utils.JSON500(c, err.Error())
		return
	}

	// Instance creation is confirmed; commit the counter now.
	if err := ctrl.Repository.CounterRepo.Commit(ctx, counterValue); err != nil {
		if errors.Is(err, repository.ErrCounterConflict) {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Counter conflict committing %s: id may have been issued twice", envID)
		} else {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to commit counter for %s: %v", envID, err)
			utils.JSON500(c, err.Error())
			return
		}
	}

	instanceID := ""
	if len(instances) > 0 {
		instanceID = instances[0].InstanceID
	}

	if ctrl.Config.EnvConfig.Artifact.Bucket != "" {
		if err := ctrl.Infra.S3.PutBootstrapArtifact(ctx, envID, script); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Environment] Failed to archive bootstrap script for %s: %v", envID, err)
		}
	}

	if ctrl.Infra.Produce != nil {
		if err := ctrl.Infra.Produce.EnvironmentService.PublishEnvironmentCreated(ctx, envID, instanceID, req.ClientLabel, email); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Environment] Failed to publish created event for %s: %v", envID, err)
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Environment] Created %s (instance %s) for %s", envID, instanceID, email)
	utils.JSON200(c, gin.H{
		"success":     true,
		"envId":       envID,
		"clientLabel": req.ClientLabel,
		"createdBy":   email,
		"createdDate": createdDate.Format(time.RFC3339),
		"instances":   instances,
	})
}
