package registry

import (
	"github.com/cloudpulse/cloudpulse/internal/jsonpath"
)

var statuspageDescription = jsonpath.Path{jsonpath.Key("status"), jsonpath.Key("description")}

// Default returns the built-in registry of well-known public status pages.
func Default() Registry {
	return Registry{
		{Name: "GitHub", URL: "https://www.githubstatus.com/api/v2/status.json", KeyPath: statuspageDescription},
		{Name: "Slack", URL: "https://status.slack.com/api/v2.0.0/current", KeyPath: jsonpath.Path{jsonpath.Key("status")}},
		{Name: "Atlassian", URL: "https://status.atlassian.com/api/v2/status.json", KeyPath: statuspageDescription},
		{Name: "Cloudflare", URL: "https://www.cloudflarestatus.com/api/v2/status.json", KeyPath: statuspageDescription},
		{Name: "HashiCorp", URL: "https://status.hashicorp.com/api/v2/status.json", KeyPath: statuspageDescription},
		{Name: "Reddit", URL: "https://www.redditstatus.com/api/v2/status.json", KeyPath: statuspageDescription},
	}
}
