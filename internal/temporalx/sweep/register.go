package sweep

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
)

func Register(r recapgen.Registry, acts *Activities) {
	r.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	r.RegisterActivityWithOptions(acts.SelectUsers, activity.RegisterOptions{Name: ActivitySelectUsers})
	r.RegisterActivityWithOptions(acts.TriggerRecaps, activity.RegisterOptions{Name: ActivityTriggerRecaps})
}
