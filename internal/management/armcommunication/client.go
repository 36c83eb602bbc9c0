// Package armcommunication provides Azure Resource Manager clients for Communication Service resources.
package armcommunication

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commErrors "acs-toolkit/internal/communication/errors"
	"acs-toolkit/internal/communication/shared"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const (
	moduleName    = "armcommunication"
	moduleVersion = "v0.1.0"

	// APIVersion is the resource provider REST version this client speaks.
	APIVersion = "2020-08-20-preview"

	// DefaultEndpoint is the public cloud Resource Manager endpoint.
	DefaultEndpoint = "https://management.azure.com"

	providerPath = "providers/Microsoft.Communication"

	defaultPollFrequency = 5 * time.Second
)

// ErrProvisioningFailed is returned by WaitForProvisioning when the resource ends in a failed or canceled state.
var ErrProvisioningFailed = errors.New("provisioning did not succeed")

// ClientOptions configures the Resource Manager clients.
type ClientOptions struct {
	policy.ClientOptions

	// Endpoint overrides DefaultEndpoint.
	Endpoint string
}

func newPipeline(cred azcore.TokenCredential, options *ClientOptions) (string, runtime.Pipeline, error) {
	if cred == nil {
		return "", runtime.Pipeline{}, &commErrors.ValidationError{Param: "credential", Reason: commErrors.MissingCredential}
	}
	if options == nil {
		options = &ClientOptions{}
	}
	endpoint := options.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	endpoint, err := shared.NormalizeEndpoint(endpoint)
	if err != nil {
		return "", runtime.Pipeline{}, err
	}
	auth := runtime.NewBearerTokenPolicy(cred, []string{endpoint + "/.default"}, nil)
	return endpoint, shared.NewPipeline(moduleName, moduleVersion, auth, &options.ClientOptions), nil
}

// ServicesClient manages Communication Service resources of one subscription.
type ServicesClient struct {
	subscriptionID string
	endpoint       string
	pl             runtime.Pipeline
}

// NewServicesClient builds a ServicesClient authorized with an Azure AD credential.
func NewServicesClient(subscriptionID string, cred azcore.TokenCredential, options *ClientOptions) (*ServicesClient, error) {
	if _, err := shared.PathSegment("subscription id", subscriptionID); err != nil {
		return nil, err
	}
	endpoint, pl, err := newPipeline(cred, options)
	if err != nil {
		return nil, err
	}
	return &ServicesClient{subscriptionID: subscriptionID, endpoint: endpoint, pl: pl}, nil
}

func (c *ServicesClient) resourceURL(resourceGroup, name string, paths ...string) (string, error) {
	group, err := shared.PathSegment("resource group", resourceGroup)
	if err != nil {
		return "", err
	}
	service, err := shared.PathSegment("communication service name", name)
	if err != nil {
		return "", err
	}
	parts := []string{
		"subscriptions", url.PathEscape(c.subscriptionID),
		"resourceGroups", group,
		providerPath, "communicationServices", service,
	}
	return runtime.JoinPaths(c.endpoint, append(parts, paths...)...), nil
}

// Get fetches a resource.
func (c *ServicesClient) Get(ctx context.Context, resourceGroup, name string) (ServiceResource, error) {
	u, err := c.resourceURL(resourceGroup, name)
	if err != nil {
		return ServiceResource{}, err
	}
	var resource ServiceResource
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        u,
		APIVersion: APIVersion,
		Out:        &resource,
	}); err != nil {
		return ServiceResource{}, err
	}
	return resource, nil
}

// CreateOrUpdate creates or replaces a resource. The returned resource may still be provisioning.
func (c *ServicesClient) CreateOrUpdate(ctx context.Context, resourceGroup, name string, resource ServiceResource) (ServiceResource, error) {
	u, err := c.resourceURL(resourceGroup, name)
	if err != nil {
		return ServiceResource{}, err
	}
	if resource.Location == "" {
		resource.Location = "global"
	}
	var result ServiceResource
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPut,
		URL:        u,
		APIVersion: APIVersion,
		Body:       resource,
		Out:        &result,
		Statuses:   []int{http.StatusOK, http.StatusCreated},
	}); err != nil {
		return ServiceResource{}, err
	}
	return result, nil
}

// Update patches the tags of a resource.
func (c *ServicesClient) Update(ctx context.Context, resourceGroup, name string, tags map[string]string) (ServiceResource, error) {
	u, err := c.resourceURL(resourceGroup, name)
	if err != nil {
		return ServiceResource{}, err
	}
	var result ServiceResource
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPatch,
		URL:        u,
		APIVersion: APIVersion,
		Body:       ServiceResource{Tags: tags},
		Out:        &result,
	}); err != nil {
		return ServiceResource{}, err
	}
	return result, nil
}

// WaitForProvisioningOptions holds the optional parameters of WaitForProvisioning.
type WaitForProvisioningOptions struct {
	Frequency time.Duration
}

// WaitForProvisioning polls Get until the resource reaches a terminal provisioning state.
func (c *ServicesClient) WaitForProvisioning(ctx context.Context, resourceGroup, name string, options *WaitForProvisioningOptions) (ServiceResource, error) {
	frequency := defaultPollFrequency
	if options != nil && options.Frequency > 0 {
		frequency = options.Frequency
	}
	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	for {
		resource, err := c.Get(ctx, resourceGroup, name)
		if err != nil {
			return ServiceResource{}, err
		}
		if state := resource.State(); state.Terminal() {
			if state != ProvisioningStateSucceeded {
				return resource, fmt.Errorf("%w: %s", ErrProvisioningFailed, state)
			}
			return resource, nil
		}
		select {
		case <-ctx.Done():
			return resource, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Delete removes a resource.
func (c *ServicesClient) Delete(ctx context.Context, resourceGroup, name string) error {
	u, err := c.resourceURL(resourceGroup, name)
	if err != nil {
		return err
	}
	_, err = shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodDelete,
		URL:        u,
		APIVersion: APIVersion,
		Statuses:   []int{http.StatusOK, http.StatusAccepted, http.StatusNoContent},
	})
	return err
}

// NewListBySubscriptionPager lists every resource of the subscription.
func (c *ServicesClient) NewListBySubscriptionPager() *runtime.Pager[ServiceResourceList] {
	return c.listPager(runtime.JoinPaths(c.endpoint,
		"subscriptions", url.PathEscape(c.subscriptionID),
		providerPath, "communicationServices"))
}

// NewListByResourceGroupPager lists the resources of one resource group.
// An invalid resource group is reported by the first NextPage call.
func (c *ServicesClient) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[ServiceResourceList] {
	group, err := shared.PathSegment("resource group", resourceGroup)
	if err != nil {
		return shared.NewFailedPager[ServiceResourceList](err)
	}
	return c.listPager(runtime.JoinPaths(c.endpoint,
		"subscriptions", url.PathEscape(c.subscriptionID),
		"resourceGroups", group,
		providerPath, "communicationServices"))
}

func (c *ServicesClient) listPager(u string) *runtime.Pager[ServiceResourceList] {
	return shared.NewPager(c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        u,
		APIVersion: APIVersion,
	}, func(page ServiceResourceList) string { return page.NextLink })
}

// ListKeys returns the access keys of a resource.
func (c *ServicesClient) ListKeys(ctx context.Context, resourceGroup, name string) (ServiceKeys, error) {
	u, err := c.resourceURL(resourceGroup, name, "listKeys")
	if err != nil {
		return ServiceKeys{}, err
	}
	var keys ServiceKeys
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        u,
		APIVersion: APIVersion,
		Out:        &keys,
	}); err != nil {
		return ServiceKeys{}, err
	}
	return keys, nil
}

// RegenerateKey rotates one access key and returns the new keys.
func (c *ServicesClient) RegenerateKey(ctx context.Context, resourceGroup, name string, keyType KeyType) (ServiceKeys, error) {
	body := RegenerateKeyParameters{KeyType: keyType}
	if err := shared.Validate(body); err != nil {
		return ServiceKeys{}, err
	}
	u, err := c.resourceURL(resourceGroup, name, "regenerateKey")
	if err != nil {
		return ServiceKeys{}, err
	}
	var keys ServiceKeys
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        u,
		APIVersion: APIVersion,
		Body:       body,
		Out:        &keys,
	}); err != nil {
		return ServiceKeys{}, err
	}
	return keys, nil
}

// LinkNotificationHub links an Azure Notification Hub to the resource for push notifications.
func (c *ServicesClient) LinkNotificationHub(ctx context.Context, resourceGroup, name string, params LinkNotificationHubParameters) (LinkedNotificationHub, error) {
	if err := shared.Validate(params); err != nil {
		return LinkedNotificationHub{}, err
	}
	u, err := c.resourceURL(resourceGroup, name, "linkNotificationHub")
	if err != nil {
		return LinkedNotificationHub{}, err
	}
	var linked LinkedNotificationHub
	if _, err := shared.Invoke(ctx, c.pl, shared.Call{
		Method:     http.MethodPost,
		URL:        u,
		APIVersion: APIVersion,
		Body:       params,
		Out:        &linked,
	}); err != nil {
		return LinkedNotificationHub{}, err
	}
	return linked, nil
}

// ResourceGroupFromID extracts the resource group segment of an ARM resource id.
func ResourceGroupFromID(id string) string {
	parts := strings.Split(strings.Trim(id, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}

// OperationsClient lists the operations of the resource provider.
type OperationsClient struct {
	endpoint string
	pl       runtime.Pipeline
}

// NewOperationsClient builds an OperationsClient authorized with an Azure AD credential.
func NewOperationsClient(cred azcore.TokenCredential, options *ClientOptions) (*OperationsClient, error) {
	endpoint, pl, err := newPipeline(cred, options)
	if err != nil {
		return nil, err
	}
	return &OperationsClient{endpoint: endpoint, pl: pl}, nil
}

// NewListPager lists the available provider operations.
func (c *OperationsClient) NewListPager() *runtime.Pager[OperationList] {
	return shared.NewPager(c.pl, shared.Call{
		Method:     http.MethodGet,
		URL:        runtime.JoinPaths(c.endpoint, providerPath, "operations"),
		APIVersion: APIVersion,
	}, func(page OperationList) string { return page.NextLink })
}
