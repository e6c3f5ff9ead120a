package recapgen

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/workflow"
)

// Registry is satisfied by worker.Worker and the SDK test environment.
type Registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

func Register(r Registry, acts *Activities) {
	r.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowName})
	r.RegisterActivityWithOptions(acts.LoadUserMeta, activity.RegisterOptions{Name: ActivityLoadUserMeta})
	r.RegisterActivityWithOptions(acts.LoadMoments, activity.RegisterOptions{Name: ActivityLoadMoments})
	r.RegisterActivityWithOptions(acts.GenerateNarrative, activity.RegisterOptions{Name: ActivityGenerateNarrative})
	r.RegisterActivityWithOptions(acts.GenerateImagePrompt, activity.RegisterOptions{Name: ActivityGenerateImagePrompt})
	r.RegisterActivityWithOptions(acts.RenderImage, activity.RegisterOptions{Name: ActivityRenderImage})
	r.RegisterActivityWithOptions(acts.Persist, activity.RegisterOptions{Name: ActivityPersist})
	r.RegisterActivityWithOptions(acts.MarkFailed, activity.RegisterOptions{Name: ActivityMarkFailed})
}
