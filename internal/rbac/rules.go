package rbac

const (
	PermGradingRun      = "grading:run"
	PermResultsDownload = "results:download"
	PermRunsView        = "runs:view"
)

// Default policy: teachers grade and download, viewers only download.
var RolePermissions = map[string][]string{
	"viewer": {
		PermResultsDownload,
	},
	"teacher": {
		PermGradingRun,
		PermResultsDownload,
		PermRunsView,
	},
	"admin": {
		"*", // everything
	},
}
