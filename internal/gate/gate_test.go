package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiller/internal/types"
)

// loadingRole simulates a role store that has not resolved yet.
type loadingRole struct{}

func (loadingRole) CurrentRole(context.Context) (types.AssistantRole, bool, error) {
	return "", false, nil
}

// flakyRole simulates a role store returning an error.
type flakyRole struct{}

func (flakyRole) CurrentRole(context.Context) (types.AssistantRole, bool, error) {
	return "", false, errors.New("profile store unavailable")
}

// switchableRole flips roles mid-test to exercise read-after-write
// visibility.
type switchableRole struct {
	role types.AssistantRole
}

func (s *switchableRole) CurrentRole(context.Context) (types.AssistantRole, bool, error) {
	return s.role, true, nil
}

func TestCheckAction_AnalystBlockedFromSending(t *testing.T) {
	g := New(StaticRole(types.RoleAnalyst), PolicyFailOpen)

	v, err := g.CheckAction(context.Background(), types.ActionSendMessage)
	require.NoError(t, err)

	assert.False(t, v.Allowed)
	assert.Equal(t, "I can't send messages directly in Analyst mode.", v.BlockedReason)
	assert.NotEmpty(t, v.Suggestion, "denial must never be a bare rejection")
}

func TestCheckAction_OperatorBypassesEverything(t *testing.T) {
	g := New(StaticRole(types.RoleOperator), PolicyFailOpen)
	ctx := context.Background()

	for _, action := range []types.ActionType{
		types.ActionSendMessage,
		types.ActionAutoReply,
		types.ActionCreateTask,
		types.ActionDeleteTask,
		types.ActionSpendTokens,
	} {
		v, err := g.CheckAction(ctx, action)
		require.NoError(t, err, "action %q", action)
		assert.True(t, v.Allowed, "operator blocked from %q", action)
		assert.False(t, v.RequiresConfirmation, "operator asked to confirm %q", action)
	}
}

func TestCheckAction_AnalystConfirmationSet(t *testing.T) {
	g := New(StaticRole(types.RoleAnalyst), PolicyFailOpen)
	ctx := context.Background()

	for _, action := range []types.ActionType{
		types.ActionCreateTask,
		types.ActionUpdateTask,
		types.ActionDeleteTask,
		types.ActionArchiveItem,
		types.ActionScheduleEvent,
		types.ActionDraftReply,
		types.ActionStartSession,
		types.ActionClaimReward,
		types.ActionSpendTokens,
	} {
		v, err := g.CheckAction(ctx, action)
		require.NoError(t, err, "action %q", action)
		assert.True(t, v.Allowed, "analyst wrongly blocked from %q", action)
		assert.True(t, v.RequiresConfirmation, "analyst not asked to confirm %q", action)
	}
}

func TestCheckAction_UnknownActionIsHardError(t *testing.T) {
	g := New(StaticRole(types.RoleOperator), PolicyFailOpen)

	_, err := g.CheckAction(context.Background(), types.ActionType("launch_missiles"))
	assert.ErrorIs(t, err, ErrUnknownActionType)
}

func TestCheckAction_UnresolvedRoleFailOpen(t *testing.T) {
	g := New(loadingRole{}, PolicyFailOpen)
	ctx := context.Background()

	v, err := g.CheckAction(ctx, types.ActionSendMessage)
	require.NoError(t, err)
	assert.True(t, v.Allowed, "fail-open must not reject while loading")

	// Confirmation survives fail-open: it costs a tap, not a rejection.
	v, err = g.CheckAction(ctx, types.ActionDeleteTask)
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.True(t, v.RequiresConfirmation)
}

func TestCheckAction_UnresolvedRoleFailClosed(t *testing.T) {
	g := New(loadingRole{}, PolicyFailClosed)

	v, err := g.CheckAction(context.Background(), types.ActionSendMessage)
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.NotEmpty(t, v.BlockedReason)
	assert.NotEmpty(t, v.Suggestion)
}

func TestCheckAction_RoleSourceErrorFollowsPolicy(t *testing.T) {
	open := New(flakyRole{}, PolicyFailOpen)
	v, err := open.CheckAction(context.Background(), types.ActionArchiveItem)
	require.NoError(t, err)
	assert.True(t, v.Allowed)

	closed := New(flakyRole{}, PolicyFailClosed)
	v, err = closed.CheckAction(context.Background(), types.ActionArchiveItem)
	require.NoError(t, err)
	assert.False(t, v.Allowed)
}

func TestInterceptExecution(t *testing.T) {
	ctx := context.Background()

	analyst := New(StaticRole(types.RoleAnalyst), PolicyFailOpen)
	assert.True(t, analyst.InterceptExecution(ctx, types.ActionSendMessage))
	assert.False(t, analyst.InterceptExecution(ctx, types.ActionCreateTask),
		"confirmation-required actions are the confirmation flow's job, not the gate's")

	operator := New(StaticRole(types.RoleOperator), PolicyFailOpen)
	assert.False(t, operator.InterceptExecution(ctx, types.ActionSendMessage))

	assert.True(t, analyst.InterceptExecution(ctx, types.ActionType("mystery")),
		"unknown actions never reach an effect")
}

func TestRolePromotionVisibleImmediately(t *testing.T) {
	// The gate re-reads the source every check, so a committed promotion is
	// observed by the very next call.
	src := &switchableRole{role: types.RoleAnalyst}
	g := New(src, PolicyFailOpen)
	ctx := context.Background()

	v, err := g.CheckAction(ctx, types.ActionSendMessage)
	require.NoError(t, err)
	require.False(t, v.Allowed)

	src.role = types.RoleOperator

	v, err = g.CheckAction(ctx, types.ActionSendMessage)
	require.NoError(t, err)
	assert.True(t, v.Allowed)
}

func TestIsOperatorIsAnalyst(t *testing.T) {
	ctx := context.Background()

	assert.True(t, New(StaticRole(types.RoleOperator), PolicyFailOpen).IsOperator(ctx))
	assert.True(t, New(StaticRole(types.RoleAnalyst), PolicyFailOpen).IsAnalyst(ctx))

	// Query layer follows the unresolved policy.
	assert.True(t, New(loadingRole{}, PolicyFailOpen).IsOperator(ctx))
	assert.False(t, New(loadingRole{}, PolicyFailClosed).IsOperator(ctx))
}

func TestParseUnresolvedPolicy(t *testing.T) {
	assert.Equal(t, PolicyFailClosed, ParseUnresolvedPolicy("fail_closed"))
	assert.Equal(t, PolicyFailOpen, ParseUnresolvedPolicy("fail_open"))
	assert.Equal(t, PolicyFailOpen, ParseUnresolvedPolicy(""))
	assert.Equal(t, PolicyFailOpen, ParseUnresolvedPolicy("whatever"))
}
