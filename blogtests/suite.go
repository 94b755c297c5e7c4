package blogtests

import (
	"fmt"
	"strings"

	"github.com/blogapp/blog-e2e-harness/framework"
)

// SuiteKind says what a suite needs from the environment.
type SuiteKind string

const (
	APISuite SuiteKind = "api"
	UISuite  SuiteKind = "ui"
)

// Suite is one top-level group of tests. Suites are the unit of parallelism: each runs on one
// worker, with its tests in declaration order.
type Suite struct {
	Name   string
	Kind   SuiteKind
	Serial bool
	Run    func(*T)
}

// AllSuites lists every suite in the order they are reported.
var AllSuites = []Suite{
	{Name: "Authentication API Tests", Kind: APISuite, Run: DoAuthAPITests},
	{Name: "Blog API Tests", Kind: APISuite, Serial: true, Run: DoBlogAPITests},
	{Name: "Comment API Tests", Kind: APISuite, Serial: true, Run: DoCommentAPITests},
	{Name: "Upload API Tests", Kind: APISuite, Run: DoUploadAPITests},
	{Name: "Health Check API Tests", Kind: APISuite, Run: DoHealthAPITests},
	{Name: "Homepage Tests", Kind: UISuite, Run: DoHomepageTests},
	{Name: "Login Page", Kind: UISuite, Run: DoLoginPageTests},
	{Name: "Admin Page - Blog Management", Kind: UISuite, Run: DoAdminPageTests},
	{Name: "Create Blog Page - Blog Creation", Kind: UISuite, Run: DoCreateBlogPageTests},
	{Name: "Session Persistence Tests", Kind: UISuite, Run: DoSessionPersistenceTests},
}

// SelectSuites parses the -suites option: "api", "ui", or "all".
func SelectSuites(which string) ([]Suite, error) {
	var kinds []SuiteKind
	switch strings.ToLower(which) {
	case "", "all":
		return AllSuites, nil
	case string(APISuite):
		kinds = []SuiteKind{APISuite}
	case string(UISuite):
		kinds = []SuiteKind{UISuite}
	default:
		return nil, fmt.Errorf("unknown suite selection %q, must be api, ui or all", which)
	}
	var ret []Suite
	for _, s := range AllSuites {
		for _, k := range kinds {
			if s.Kind == k {
				ret = append(ret, s)
			}
		}
	}
	return ret, nil
}

// NeedsBrowser returns true if any of the suites drives the UI.
func NeedsBrowser(suites []Suite) bool {
	for _, s := range suites {
		if s.Kind == UISuite {
			return true
		}
	}
	return false
}

// RunTestSuite runs the suites on up to workers goroutines and returns the results.
func RunTestSuite(env *Environment, suites []Suite, opts framework.RunOptions, workers int) framework.Results {
	groups := make([]framework.Group, 0, len(suites))
	for _, s := range suites {
		s := s
		groups = append(groups, framework.Group{
			Name:   s.Name,
			Serial: s.Serial,
			Action: func(c *framework.Context) {
				s.Run(newGroupScope(c, env, nil))
			},
		})
	}
	return framework.RunGroups(opts, workers, groups)
}
