package changes

// PackageChange records one changed file inside a deployment package.
// A file belongs to at most one package; the first discovered package
// whose root is a path ancestor of the file wins.
type PackageChange struct {
	// PackagePath is the repository-relative root of the package.
	PackagePath string `json:"packagePath"`
	// PackageName is the package's declared name.
	PackageName string `json:"packageName"`
	// File is the repository-relative path of the changed file.
	File string `json:"file"`
	// RelativePath is the file path relative to the package root.
	RelativePath string `json:"relativePath"`
	// Type categorizes what part of the package changed.
	Type ChangeType `json:"type"`
	// Severity ranks the deployment risk of this change.
	Severity Severity `json:"severity"`
}

// BreakingChange flags a change that can break consumers of a service.
type BreakingChange struct {
	// File is the changed file that triggered the flag.
	File string `json:"file"`
	// Type tags the kind of breaking change.
	Type string `json:"type"`
	// PackageName is the owning deployment package, when known.
	PackageName string `json:"packageName,omitempty"`
	// Severity ranks the risk of the breaking change.
	Severity Severity `json:"severity"`
	// Message describes the change for human readers.
	Message string `json:"message"`
	// Endpoints lists extracted "METHOD path" route strings, when the
	// change was detected from route declarations.
	Endpoints []string `json:"endpoints,omitempty"`
}
