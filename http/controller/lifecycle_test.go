package controller

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundAddress() []ec2types.Address {
	return []ec2types.Address{
		{
			PublicIp:      aws.String("13.127.1.1"),
			AllocationId:  aws.String("eipalloc-1"),
			AssociationId: aws.String("eipassoc-1"),
		},
	}
}

func TestToggleRequiresInstanceIDAndAction(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "instanceId and action are required", decodeBody(t, w)["message"])
	assert.Empty(t, env.rec.calls)
}

func TestToggleRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"reboot"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid action", decodeBody(t, w)["message"])
	assert.Empty(t, env.rec.calls)
}

func TestStartInstance(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"start"}`, "dev@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "start", body["action"])
	assert.Equal(t, []string{"StartInstances"}, env.rec.calls)
}

func TestStopInstanceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.ec2.stopErr = errors.New("IncorrectInstanceState")

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"stop"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestTerminateRequiresEnvID(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"terminate"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.rec.calls)
}

func TestTerminateFullCleanup(t *testing.T) {
	env := newTestEnv(t)
	env.ec2.addresses = boundAddress()

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"terminate","envId":"poc1"}`, "dev@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	// DNS and address cleanup must all happen before the instance goes away.
	assert.Equal(t, []string{
		"DescribeAddresses",
		"ChangeResourceRecordSets",
		"DisassociateAddress",
		"ReleaseAddress",
		"TerminateInstances",
	}, env.rec.calls)

	body := decodeBody(t, w)
	cleaned, ok := body["cleaned"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, cleaned["addressReleased"])
	assert.Equal(t, true, cleaned["dnsDeleted"])

	change := env.r53.lastChange
	require.NotNil(t, change)
	require.Len(t, change.ChangeBatch.Changes, 1)
	rrs := change.ChangeBatch.Changes[0].ResourceRecordSet
	assert.Equal(t, r53types.ChangeActionDelete, change.ChangeBatch.Changes[0].Action)
	assert.Equal(t, "poc1.poc.saas.prezm.com", *rrs.Name)
	require.Len(t, rrs.ResourceRecords, 1)
	assert.Equal(t, "13.127.1.1", *rrs.ResourceRecords[0].Value)
}

func TestTerminateWithoutAddress(t *testing.T) {
	env := newTestEnv(t)

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"terminate","envId":"poc1"}`, "dev@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"DescribeAddresses", "TerminateInstances"}, env.rec.calls)

	cleaned := decodeBody(t, w)["cleaned"].(map[string]interface{})
	assert.Equal(t, false, cleaned["addressReleased"])
	assert.Equal(t, false, cleaned["dnsDeleted"])
}

func TestTerminateCleanupFailuresAreBestEffort(t *testing.T) {
	env := newTestEnv(t)
	env.ec2.addresses = boundAddress()
	env.r53.changeErr = errors.New("InvalidChangeBatch")
	env.ec2.releaseErr = errors.New("AuthFailure")

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"terminate","envId":"poc1"}`, "dev@prezm.com")
	require.Equal(t, http.StatusOK, w.Code)

	// The instance is still destroyed; the failed steps are reported as not done.
	assert.Contains(t, env.rec.calls, "TerminateInstances")
	cleaned := decodeBody(t, w)["cleaned"].(map[string]interface{})
	assert.Equal(t, false, cleaned["addressReleased"])
	assert.Equal(t, false, cleaned["dnsDeleted"])
}

func TestTerminateInstanceFailure(t *testing.T) {
	env := newTestEnv(t)
	env.ec2.terminateErr = errors.New("AuthFailure")

	w := perform(t, env.ctrl.ToggleEnvironment, http.MethodPost, "/environments/lifecycle",
		`{"instanceId":"i-0abc123","action":"terminate","envId":"poc1"}`, "dev@prezm.com")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}
