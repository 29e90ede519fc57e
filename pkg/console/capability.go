// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
)

const (
	// CapabilityGetData fetches widget data from its providers.
	CapabilityGetData Capability = "getData"
	// CapabilityRender renders a widget.
	CapabilityRender Capability = "render"
	// CapabilityConnect opens a provider connection.
	CapabilityConnect Capability = "connect"
	// CapabilityCredentials resolves provider credentials.
	CapabilityCredentials Capability = "credentials"
)

type (
	// Capability names an operation a hydrated widget or provider may support.
	Capability string

	// Widget is a hydrated widget.
	//
	// Implementations usually embed BaseWidget and override the capabilities
	// they support; capabilities left alone fail with CapabilityUnimplementedError.
	Widget interface {
		// Spec returns the generic record the widget was hydrated from. It is a
		// lossless projection: hydrating Spec() again yields an equivalent widget.
		Spec() WidgetSpec
		// GetData loads the widget's data from the given providers.
		GetData(ctx context.Context, req DataRequest) error
		// Render renders the widget with its already rendered children.
		Render(ctx context.Context, children []Rendered) (Rendered, error)
	}

	// Provider is a hydrated provider.
	Provider interface {
		// Spec returns the generic record the provider was hydrated from.
		Spec() ProviderSpec
		// Connect prepares the provider for use by widgets.
		Connect(ctx context.Context) error
		// Credentials resolves the credentials the provider hands to widgets.
		Credentials(ctx context.Context) (Credentials, error)
	}

	// DataRequest carries the inputs of Widget.GetData.
	DataRequest struct {
		Providers  []Provider
		Overrides  Record
		Parameters map[string]string
	}

	// Rendered is the output of Widget.Render.
	Rendered struct {
		WidgetID string
		Output   string
	}

	// Credentials are resolved provider credentials.
	Credentials map[string]string

	// BaseWidget implements Widget with every capability unimplemented.
	BaseWidget struct {
		spec WidgetSpec
	}

	// BaseProvider implements Provider with every capability unimplemented.
	BaseProvider struct {
		spec ProviderSpec
	}
)

// String returns the capability name.
func (c Capability) String() string { return string(c) }

// NewBaseWidget returns a BaseWidget holding a copy of spec.
func NewBaseWidget(spec WidgetSpec) BaseWidget {
	return BaseWidget{spec: spec.Clone()}
}

// Spec returns a copy of the widget record.
func (w *BaseWidget) Spec() WidgetSpec { return w.spec.Clone() }

// ID returns the widget id.
func (w *BaseWidget) ID() string { return w.spec.ID }

// GetData fails with CapabilityUnimplementedError.
func (w *BaseWidget) GetData(context.Context, DataRequest) error {
	return &CapabilityUnimplementedError{Type: w.spec.Type, Capability: CapabilityGetData}
}

// Render fails with CapabilityUnimplementedError.
func (w *BaseWidget) Render(context.Context, []Rendered) (Rendered, error) {
	return Rendered{}, &CapabilityUnimplementedError{Type: w.spec.Type, Capability: CapabilityRender}
}

// NewBaseProvider returns a BaseProvider holding a copy of spec.
func NewBaseProvider(spec ProviderSpec) BaseProvider {
	return BaseProvider{spec: spec.Clone()}
}

// Spec returns a copy of the provider record.
func (p *BaseProvider) Spec() ProviderSpec { return p.spec.Clone() }

// ID returns the provider id.
func (p *BaseProvider) ID() string { return p.spec.ID }

// Connect fails with CapabilityUnimplementedError.
func (p *BaseProvider) Connect(context.Context) error {
	return &CapabilityUnimplementedError{Type: p.spec.Type, Capability: CapabilityConnect}
}

// Credentials fails with CapabilityUnimplementedError.
func (p *BaseProvider) Credentials(context.Context) (Credentials, error) {
	return nil, &CapabilityUnimplementedError{Type: p.spec.Type, Capability: CapabilityCredentials}
}
