// internal/filter/lists.go - Resource and check list search, tag catalog
package filter

import (
    "sort"
    "strings"

    "uptimeboard/internal/models"
)

// Resources matches search against the resource name and each tag.
func Resources(resources []models.Resource, search string) []models.Resource {
    if search == "" {
        return resources
    }
    search = strings.ToLower(search)
    out := []models.Resource{}
    for _, r := range resources {
        if contains(r.Name, search) || anyContains(r.Tags, search) {
            out = append(out, r)
        }
    }
    return out
}

type CheckFilter struct {
    Search   string
    TestType models.TestType
    Tags     []string
}

// Checks matches search against title, description and name.
func Checks(checks []models.Check, f CheckFilter) []models.Check {
    search := strings.ToLower(f.Search)
    out := []models.Check{}
    for _, c := range checks {
        if search != "" && !contains(c.Title, search) && !contains(c.Description, search) && !contains(c.Name, search) {
            continue
        }
        if f.TestType != "" && c.TestType != f.TestType {
            continue
        }
        if len(f.Tags) > 0 && !anyTag(f.Tags, c.Tags) {
            continue
        }
        out = append(out, c)
    }
    return out
}

// Tags returns every tag used by a resource or check, sorted and unique.
func Tags(resources []models.Resource, checks []models.Check) []string {
    seen := map[string]struct{}{}
    for _, r := range resources {
        for _, t := range r.Tags {
            seen[t] = struct{}{}
        }
    }
    for _, c := range checks {
        for _, t := range c.Tags {
            seen[t] = struct{}{}
        }
    }
    tags := make([]string, 0, len(seen))
    for t := range seen {
        tags = append(tags, t)
    }
    sort.Strings(tags)
    return tags
}

func contains(s, lowerSub string) bool {
    return strings.Contains(strings.ToLower(s), lowerSub)
}

func anyContains(values []string, lowerSub string) bool {
    for _, v := range values {
        if contains(v, lowerSub) {
            return true
        }
    }
    return false
}
