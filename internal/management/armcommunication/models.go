package armcommunication

// ProvisioningState is the lifecycle state of a Communication Service resource.
type ProvisioningState string

const (
	ProvisioningStateUnknown   ProvisioningState = "Unknown"
	ProvisioningStateSucceeded ProvisioningState = "Succeeded"
	ProvisioningStateFailed    ProvisioningState = "Failed"
	ProvisioningStateCanceled  ProvisioningState = "Canceled"
	ProvisioningStateRunning   ProvisioningState = "Running"
	ProvisioningStateCreating  ProvisioningState = "Creating"
	ProvisioningStateUpdating  ProvisioningState = "Updating"
	ProvisioningStateDeleting  ProvisioningState = "Deleting"
	ProvisioningStateMoving    ProvisioningState = "Moving"
)

// Terminal reports whether no further transitions are expected.
func (s ProvisioningState) Terminal() bool {
	switch s {
	case ProvisioningStateSucceeded, ProvisioningStateFailed, ProvisioningStateCanceled:
		return true
	}
	return false
}

// KeyType selects one of the two access keys of a resource.
type KeyType string

const (
	KeyTypePrimary   KeyType = "Primary"
	KeyTypeSecondary KeyType = "Secondary"
)

// ServiceProperties are the mutable and read-only properties of a resource.
type ServiceProperties struct {
	DataLocation        string            `json:"dataLocation,omitempty"`
	ProvisioningState   ProvisioningState `json:"provisioningState,omitempty"`
	HostName            string            `json:"hostName,omitempty"`
	NotificationHubID   string            `json:"notificationHubId,omitempty"`
	Version             string            `json:"version,omitempty"`
	ImmutableResourceID string            `json:"immutableResourceId,omitempty"`
}

// ServiceResource is a Communication Service ARM resource.
type ServiceResource struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name,omitempty"`
	Type       string             `json:"type,omitempty"`
	Location   string             `json:"location,omitempty"`
	Tags       map[string]string  `json:"tags,omitempty"`
	Properties *ServiceProperties `json:"properties,omitempty"`
}

// State returns the provisioning state, or Unknown when the resource carries none.
func (r ServiceResource) State() ProvisioningState {
	if r.Properties == nil || r.Properties.ProvisioningState == "" {
		return ProvisioningStateUnknown
	}
	return r.Properties.ProvisioningState
}

// ServiceResourceList is one page of resources.
type ServiceResourceList struct {
	Value    []ServiceResource `json:"value"`
	NextLink string            `json:"nextLink,omitempty"`
}

// ServiceKeys holds the access keys and connection strings of a resource.
type ServiceKeys struct {
	PrimaryKey                string `json:"primaryKey,omitempty"`
	SecondaryKey              string `json:"secondaryKey,omitempty"`
	PrimaryConnectionString   string `json:"primaryConnectionString,omitempty"`
	SecondaryConnectionString string `json:"secondaryConnectionString,omitempty"`
}

// RegenerateKeyParameters is the body of a regenerate key call.
type RegenerateKeyParameters struct {
	KeyType KeyType `json:"keyType" validate:"oneof=Primary Secondary"`
}

// LinkNotificationHubParameters is the body of a link notification hub call.
type LinkNotificationHubParameters struct {
	ResourceID       string `json:"resourceId" validate:"required"`
	ConnectionString string `json:"connectionString" validate:"required"`
}

// LinkedNotificationHub is returned by LinkNotificationHub.
type LinkedNotificationHub struct {
	ResourceID string `json:"resourceId,omitempty"`
}

// OperationDisplay is the localized description of an operation.
type OperationDisplay struct {
	Provider    string `json:"provider,omitempty"`
	Resource    string `json:"resource,omitempty"`
	Operation   string `json:"operation,omitempty"`
	Description string `json:"description,omitempty"`
}

// Dimension of a metric.
type Dimension struct {
	Name                   string `json:"name,omitempty"`
	DisplayName            string `json:"displayName,omitempty"`
	InternalName           string `json:"internalName,omitempty"`
	ToBeExportedForShoebox bool   `json:"toBeExportedForShoebox,omitempty"`
}

// MetricSpecification describes one metric exposed by the provider.
type MetricSpecification struct {
	Name               string      `json:"name,omitempty"`
	DisplayName        string      `json:"displayName,omitempty"`
	DisplayDescription string      `json:"displayDescription,omitempty"`
	Unit               string      `json:"unit,omitempty"`
	AggregationType    string      `json:"aggregationType,omitempty"`
	FillGapWithZero    string      `json:"fillGapWithZero,omitempty"`
	Category           string      `json:"category,omitempty"`
	Dimensions         []Dimension `json:"dimensions,omitempty"`
}

// ServiceSpecification lists the metrics of an operation.
type ServiceSpecification struct {
	MetricSpecifications []MetricSpecification `json:"metricSpecifications,omitempty"`
}

// OperationProperties holds extra operation metadata.
type OperationProperties struct {
	ServiceSpecification *ServiceSpecification `json:"serviceSpecification,omitempty"`
}

// Operation is a REST operation exposed by the resource provider.
type Operation struct {
	Name       string               `json:"name,omitempty"`
	Display    *OperationDisplay    `json:"display,omitempty"`
	Origin     string               `json:"origin,omitempty"`
	Properties *OperationProperties `json:"properties,omitempty"`
}

// OperationList is one page of operations.
type OperationList struct {
	Value    []Operation `json:"value"`
	NextLink string      `json:"nextLink,omitempty"`
}
