package workos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// FGAClient defines operations for fine-grained authorization.
type FGAClient interface {
	ListResources(ctx context.Context, params *ListResourcesParams) (*List[Resource], error)
	GetResource(ctx context.Context, resourceType, resourceID string) (*Resource, error)
	CreateResource(ctx context.Context, params *CreateResourceParams) (*Resource, error)
	UpdateResource(ctx context.Context, params *UpdateResourceParams) (*Resource, error)
	DeleteResource(ctx context.Context, resourceType, resourceID string) error
	BatchWriteResources(ctx context.Context, writes []ResourceWrite) error

	ListResourceTypes(ctx context.Context, params *PaginationParams) (*List[ResourceType], error)
	GetResourceType(ctx context.Context, resourceType string) (*ResourceType, error)
	CreateResourceType(ctx context.Context, resourceType *ResourceType) (*ResourceType, error)
	UpdateResourceType(ctx context.Context, resourceType *ResourceType) (*ResourceType, error)
	DeleteResourceType(ctx context.Context, resourceType string) error
	ApplyResourceTypes(ctx context.Context, resourceTypes []ResourceType) ([]ResourceType, error)

	ListWarrants(ctx context.Context, params *ListWarrantsParams) (*List[Warrant], error)
	CreateWarrant(ctx context.Context, params *WarrantParams) (*Warrant, error)
	DeleteWarrant(ctx context.Context, params *WarrantParams) error
	BatchWriteWarrants(ctx context.Context, writes []WarrantParams) error

	ListPolicies(ctx context.Context, params *PaginationParams) (*List[Policy], error)
	GetPolicy(ctx context.Context, name string) (*Policy, error)
	CreatePolicy(ctx context.Context, params *PolicyParams) (*Policy, error)
	UpdatePolicy(ctx context.Context, params *PolicyParams) (*Policy, error)
	DeletePolicy(ctx context.Context, name string) error

	GetSchema(ctx context.Context) (*Schema, error)
	ApplySchema(ctx context.Context, schema string) error

	Check(ctx context.Context, params *CheckParams) (bool, error)
	BatchCheck(ctx context.Context, checks []CheckParams) ([]CheckResult, error)
	Query(ctx context.Context, params *QueryParams) (*List[QueryResult], error)
}

// Resource is an FGA resource instance.
type Resource struct {
	ResourceType string         `json:"resource_type"  yaml:"resource_type"`
	ResourceID   string         `json:"resource_id"    yaml:"resource_id"`
	Meta         map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// ListResourcesParams filters ListResources.
type ListResourcesParams struct {
	PaginationParams

	ResourceType string `url:"resource_type,omitempty"`
	Search       string `url:"search,omitempty"`
}

// CreateResourceParams is the body of CreateResource.
type CreateResourceParams struct {
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// UpdateResourceParams identifies a resource and its replacement metadata.
type UpdateResourceParams struct {
	ResourceType string         `json:"-"`
	ResourceID   string         `json:"-"`
	Meta         map[string]any `json:"meta"`
}

// ResourceWrite is one entry of BatchWriteResources.
type ResourceWrite struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Create   bool           `json:"create"`
}

// ResourceType declares a type and the rules for each of its relations.
type ResourceType struct {
	Type      string                  `json:"type"                yaml:"type"`
	Relations map[string]RelationRule `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// RelationRuleKind discriminates RelationRule.
type RelationRuleKind int

// Relation rule shapes, in decode priority order.
const (
	RelationRuleThis RelationRuleKind = iota + 1
	RelationRuleInherit
	RelationRuleUnion
)

// InheritRule grants a relation through a relation on another object.
type InheritRule struct {
	Relation string `json:"relation" yaml:"relation"`
	From     string `json:"from"     yaml:"from"`
}

// RelationRule is one of {"this": ...}, {"inherit": {...}} or {"union": [...]}.
// The wire form has no tag, so decoding tries this, inherit, then union, and the
// first shape that matches wins.
type RelationRule struct {
	Kind    RelationRuleKind
	This    json.RawMessage
	Inherit *InheritRule
	Union   []RelationRule
}

// ErrUnknownRelationRule is returned when a relation rule matches no known shape.
var ErrUnknownRelationRule = errors.New("relation rule matches no known shape")

// ThisRule builds a direct-assignment rule.
func ThisRule() RelationRule {
	return RelationRule{Kind: RelationRuleThis, This: json.RawMessage("{}")}
}

// InheritFrom builds an inherit rule.
func InheritFrom(relation, from string) RelationRule {
	return RelationRule{Kind: RelationRuleInherit, Inherit: &InheritRule{Relation: relation, From: from}}
}

// UnionOf builds a union rule.
func UnionOf(rules ...RelationRule) RelationRule {
	return RelationRule{Kind: RelationRuleUnion, Union: rules}
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RelationRule) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("decoding relation rule: %w", err)
	}

	if this, ok := fields["this"]; ok {
		*r = RelationRule{Kind: RelationRuleThis, This: this}

		return nil
	}

	if raw, ok := fields["inherit"]; ok {
		var inherit struct {
			Relation *string `json:"relation"`
			From     *string `json:"from"`
		}

		if json.Unmarshal(raw, &inherit) == nil && inherit.Relation != nil && inherit.From != nil {
			*r = InheritFrom(*inherit.Relation, *inherit.From)

			return nil
		}
	}

	if raw, ok := fields["union"]; ok {
		var union []RelationRule

		if json.Unmarshal(raw, &union) == nil && union != nil {
			*r = UnionOf(union...)

			return nil
		}
	}

	return fmt.Errorf("decoding relation rule %s: %w", data, ErrUnknownRelationRule)
}

// MarshalJSON implements json.Marshaler.
func (r RelationRule) MarshalJSON() ([]byte, error) {
	var v any

	switch r.Kind {
	case RelationRuleThis:
		this := r.This
		if this == nil {
			this = json.RawMessage("{}")
		}

		v = map[string]json.RawMessage{"this": this}
	case RelationRuleInherit:
		v = map[string]*InheritRule{"inherit": r.Inherit}
	case RelationRuleUnion:
		union := r.Union
		if union == nil {
			union = []RelationRule{}
		}

		v = map[string][]RelationRule{"union": union}
	default:
		return nil, fmt.Errorf("encoding relation rule: %w", ErrUnknownRelationRule)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding relation rule: %w", err)
	}

	return data, nil
}

// MarshalYAML renders the rule in its wire shape.
func (r RelationRule) MarshalYAML() (interface{}, error) {
	switch r.Kind {
	case RelationRuleThis:
		var this any

		_ = json.Unmarshal(r.This, &this)

		return map[string]any{"this": this}, nil
	case RelationRuleInherit:
		return map[string]*InheritRule{"inherit": r.Inherit}, nil
	case RelationRuleUnion:
		return map[string][]RelationRule{"union": r.Union}, nil
	default:
		return nil, fmt.Errorf("encoding relation rule: %w", ErrUnknownRelationRule)
	}
}

// Subject is the object a warrant grants a relation to.
type Subject struct {
	ResourceType string `json:"resource_type"              yaml:"resource_type"`
	ResourceID   string `json:"resource_id"                yaml:"resource_id"`
	Relation     string `json:"relation,omitempty"         yaml:"relation,omitempty"`
}

// Warrant relates a subject to a resource.
type Warrant struct {
	ResourceType string  `json:"resource_type"    yaml:"resource_type"`
	ResourceID   string  `json:"resource_id"      yaml:"resource_id"`
	Relation     string  `json:"relation"         yaml:"relation"`
	Subject      Subject `json:"subject"          yaml:"subject"`
	Policy       string  `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// ListWarrantsParams filters ListWarrants.
type ListWarrantsParams struct {
	PaginationParams

	SubjectType     string `url:"subject_type,omitempty"`
	SubjectID       string `url:"subject_id,omitempty"`
	SubjectRelation string `url:"subject_relation,omitempty"`
	Relation        string `url:"relation,omitempty"`
	ResourceType    string `url:"resource_type,omitempty"`
	ResourceID      string `url:"resource_id,omitempty"`

	// WarrantToken is sent as the Warrant-Token header when set.
	WarrantToken string `url:"-"`
}

// WarrantParams identifies a warrant to create or delete.
type WarrantParams struct {
	ResourceType string  `json:"resource_type"`
	ResourceID   string  `json:"resource_id"`
	Relation     string  `json:"relation"`
	Subject      Subject `json:"subject"`
	Policy       string  `json:"policy,omitempty"`
}

// PolicyParameter is a named, typed policy input.
type PolicyParameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Policy is a named FGA policy expression.
type Policy struct {
	Name        string            `json:"name"                  yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string            `json:"language"              yaml:"language"`
	Parameters  []PolicyParameter `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	Expression  string            `json:"expression"            yaml:"expression"`
	Metadata    map[string]any    `json:"metadata,omitempty"    yaml:"metadata,omitempty"`
}

// PolicyParams is the body of CreatePolicy and UpdatePolicy.
type PolicyParams struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Language    string            `json:"language"`
	Parameters  []PolicyParameter `json:"parameters,omitempty"`
	Expression  string            `json:"expression"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// Schema is the compiled FGA schema.
type Schema struct {
	ResourceTypes []ResourceType `json:"resource_types"     yaml:"resource_types"`
	Policies      []Policy       `json:"policies,omitempty" yaml:"policies,omitempty"`
}

// CheckParams asks whether subject has relation on resource. Both objects are
// written as "type:id".
type CheckParams struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Resource string `json:"resource"`
}

// CheckResult is one answer of BatchCheck.
type CheckResult struct {
	Subject  string `json:"subject"  yaml:"subject"`
	Relation string `json:"relation" yaml:"relation"`
	Resource string `json:"resource" yaml:"resource"`
	Allowed  bool   `json:"allowed"  yaml:"allowed"`
}

// QueryParams runs an FGA query.
type QueryParams struct {
	PaginationParams

	Q       string `url:"q"`
	Context string `url:"context,omitempty"`

	// WarrantToken is sent as the Warrant-Token header when set.
	WarrantToken string `url:"-"`
	// Token replaces the client credential for this call when set.
	Token string `url:"-"`
}

// QueryResult is one row of a query result.
type QueryResult struct {
	ResourceType string         `json:"resource_type"  yaml:"resource_type"`
	ResourceID   string         `json:"resource_id"    yaml:"resource_id"`
	Relation     string         `json:"relation"       yaml:"relation"`
	Warrant      Warrant        `json:"warrant"        yaml:"warrant"`
	IsImplicit   bool           `json:"is_implicit"    yaml:"is_implicit"`
	Meta         map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}
