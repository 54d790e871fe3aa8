package changes

// ChangeType categorizes what part of a deployment package a changed
// file belongs to.
type ChangeType string

const (
	// ChangeTypeChartMetadata is a change to the package descriptor.
	ChangeTypeChartMetadata ChangeType = "CHART_METADATA"
	// ChangeTypeValues is a change to default or environment values.
	ChangeTypeValues ChangeType = "VALUES"
	// ChangeTypeDeploymentTemplate is a change to a workload template.
	ChangeTypeDeploymentTemplate ChangeType = "DEPLOYMENT_TEMPLATE"
	// ChangeTypeServiceTemplate is a change to a service template.
	ChangeTypeServiceTemplate ChangeType = "SERVICE_TEMPLATE"
	// ChangeTypeIngressTemplate is a change to an ingress template.
	ChangeTypeIngressTemplate ChangeType = "INGRESS_TEMPLATE"
	// ChangeTypeConfigMapTemplate is a change to a configmap template.
	ChangeTypeConfigMapTemplate ChangeType = "CONFIGMAP_TEMPLATE"
	// ChangeTypeSecretTemplate is a change to a secret template.
	ChangeTypeSecretTemplate ChangeType = "SECRET_TEMPLATE"
	// ChangeTypeTemplate is a change to any other template file.
	ChangeTypeTemplate ChangeType = "TEMPLATE"
	// ChangeTypeDependency is a change to a vendored sub-package.
	ChangeTypeDependency ChangeType = "DEPENDENCY"
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	return string(ct)
}

// BreakingChangeAPIEndpoints tags a breaking change detected from
// route declarations in modified source files.
const BreakingChangeAPIEndpoints = "API_ENDPOINTS_MODIFIED"

// PackageBreakingType derives the synthetic breaking-change tag for a
// high-severity package change.
func PackageBreakingType(ct ChangeType) string {
	return "PACKAGE_" + string(ct)
}
