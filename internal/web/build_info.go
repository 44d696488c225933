// internal/web/build_info.go
package web

import (
    "net/http"
    "runtime"
    "runtime/debug"

    "github.com/gin-gonic/gin"
)

// BuildInfo holds build-time information
type BuildInfo struct {
    Version    string   `json:"version"`
    GitCommit  string   `json:"git_commit"`
    GitBranch  string   `json:"git_branch"`
    BuildTime  string   `json:"build_time"`
    GoVersion  string   `json:"go_version"`
    GoOS       string   `json:"go_os"`
    GoArch     string   `json:"go_arch"`
    CGOEnabled string   `json:"cgo_enabled"`
    ModuleInfo []Module `json:"modules"`
}

type Module struct {
    Path    string `json:"path"`
    Version string `json:"version"`
    Sum     string `json:"sum,omitempty"`
    Replace string `json:"replace,omitempty"`
}

// These variables will be set at build time using -ldflags
var (
    Version   = "dev"
    GitCommit = "unknown"
    GitBranch = "unknown"
    BuildTime = "unknown"
)

func (s *Server) getBuildInfo(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"data": currentBuildInfo()})
}

func currentBuildInfo() BuildInfo {
    info := BuildInfo{
        Version:    Version,
        GitCommit:  GitCommit,
        GitBranch:  GitBranch,
        BuildTime:  BuildTime,
        GoVersion:  runtime.Version(),
        GoOS:       runtime.GOOS,
        GoArch:     runtime.GOARCH,
        CGOEnabled: "unknown",
        ModuleInfo: []Module{},
    }

    bi, ok := debug.ReadBuildInfo()
    if !ok {
        return info
    }
    for _, setting := range bi.Settings {
        switch setting.Key {
        case "CGO_ENABLED":
            info.CGOEnabled = setting.Value
        case "vcs.revision":
            if info.GitCommit == "unknown" {
                info.GitCommit = setting.Value
            }
        }
    }
    for _, dep := range bi.Deps {
        m := Module{Path: dep.Path, Version: dep.Version, Sum: dep.Sum}
        if dep.Replace != nil {
            m.Replace = dep.Replace.Path + "@" + dep.Replace.Version
        }
        info.ModuleInfo = append(info.ModuleInfo, m)
    }
    return info
}
