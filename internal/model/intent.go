package model

import "fmt"

// Intent selects exactly one workflow. The enumeration is closed: the
// orchestrator's dispatch switch covers every constant and treats anything
// else as a programming error, never a silent default.
type Intent int

const (
	IntentBasicLaunch Intent = iota
	IntentAPIRequest
	IntentStartLongRunningTask
	IntentCancelLongRunningTask
	IntentFetchSequential
	IntentFetchParallel
	IntentFetchWithError
	IntentRetryFailedRequest
	IntentChainedWorkflow
	IntentTaskWithTimeout
	IntentRetryFlowExample
	IntentFlowTransformationExample
	IntentCombineFlowsExample
	IntentDebounceExample
)

// Intents lists every intent in declaration order, for API listings and
// demo iteration.
var Intents = []Intent{
	IntentBasicLaunch,
	IntentAPIRequest,
	IntentStartLongRunningTask,
	IntentCancelLongRunningTask,
	IntentFetchSequential,
	IntentFetchParallel,
	IntentFetchWithError,
	IntentRetryFailedRequest,
	IntentChainedWorkflow,
	IntentTaskWithTimeout,
	IntentRetryFlowExample,
	IntentFlowTransformationExample,
	IntentCombineFlowsExample,
	IntentDebounceExample,
}

var intentNames = map[Intent]string{
	IntentBasicLaunch:               "basic_launch",
	IntentAPIRequest:                "api_request",
	IntentStartLongRunningTask:      "start_long_running_task",
	IntentCancelLongRunningTask:     "cancel_long_running_task",
	IntentFetchSequential:           "fetch_sequential",
	IntentFetchParallel:             "fetch_parallel",
	IntentFetchWithError:            "fetch_with_error",
	IntentRetryFailedRequest:        "retry_failed_request",
	IntentChainedWorkflow:           "chained_workflow",
	IntentTaskWithTimeout:           "task_with_timeout",
	IntentRetryFlowExample:          "retry_flow",
	IntentFlowTransformationExample: "flow_transformation",
	IntentCombineFlowsExample:       "combine_flows",
	IntentDebounceExample:           "debounce",
}

// String returns the stable wire name of the intent.
func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// ParseIntent resolves a wire name to an Intent.
func ParseIntent(name string) (Intent, error) {
	for intent, n := range intentNames {
		if n == name {
			return intent, nil
		}
	}
	return 0, fmt.Errorf("unknown intent: %q", name)
}
