// Package model defines the per-file summaries and the project tree that
// laraguide builds from a Laravel code base.
package model

// Summary is the result of analyzing one file. Each role has its own
// implementation; Fields flattens it to the keys of the file's record.
type Summary interface {
	Fields() map[string]any
}

// GenericType is the record type of a file whose declaration did not pass
// its folder's role test.
const GenericType = "generic"

// Failure is a file that could not be analyzed at all.
type Failure struct {
	Message string
}

func (s Failure) Fields() map[string]any {
	return map[string]any{"error": s.Message}
}

// Missing is a file in a role folder that declares nothing of the expected
// kind. Flag is the role's is_* key; folders without one report only the
// error.
type Missing struct {
	Flag    string
	Message string
}

func (s Missing) Fields() map[string]any {
	if s.Flag == "" {
		return map[string]any{"error": s.Message}
	}
	return map[string]any{"type": GenericType, s.Flag: false, "error": s.Message}
}

// NotRole is a declaration that failed its folder's role test.
type NotRole struct {
	Flag string
}

func (s NotRole) Fields() map[string]any {
	return map[string]any{"type": GenericType, s.Flag: false}
}

// PlainFile is a PHP file without a class, interface or trait.
type PlainFile struct{}

func (PlainFile) Fields() map[string]any {
	return map[string]any{"type": "php_file", "found_definition": false}
}

// Placeholder marks a front-end file awaiting the external analyzer.
type Placeholder struct {
	Type string
}

func (s Placeholder) Fields() map[string]any {
	return map[string]any{"type": s.Type}
}

// Declaration is the generic summary of a class, interface or trait.
type Declaration struct {
	Kind            string
	Name            string
	Extends         []string
	Implements      []string
	Traits          []string
	MethodCount     int
	PropertyCount   int
	ConstructorDeps []string
}

func (s Declaration) Fields() map[string]any {
	return map[string]any{
		"type":             s.Kind,
		"name":             s.Name,
		"extends":          List(s.Extends),
		"implements":       List(s.Implements),
		"uses_traits":      List(s.Traits),
		"method_count":     s.MethodCount,
		"property_count":   s.PropertyCount,
		"constructor_deps": List(s.ConstructorDeps),
	}
}

// EloquentModel summarizes an ORM model class.
type EloquentModel struct {
	TableName         string
	FillableCount     int
	GuardedCount      int
	CastsCount        int
	RelationshipCount int
	TraitCount        int
	ScopeCount        int
}

func (s EloquentModel) Fields() map[string]any {
	return map[string]any{
		"type":               "eloquent_model",
		"is_eloquent_model":  true,
		"table_name":         s.TableName,
		"fillable_count":     s.FillableCount,
		"guarded_count":      s.GuardedCount,
		"casts_count":        s.CastsCount,
		"relationship_count": s.RelationshipCount,
		"trait_count":        s.TraitCount,
		"scope_count":        s.ScopeCount,
	}
}

// ResourceCoverage grades how many conventional REST actions a controller has.
type ResourceCoverage string

const (
	NoResource      ResourceCoverage = ""
	PartialResource ResourceCoverage = "partial_resource"
	FullResource    ResourceCoverage = "full_resource"
)

// Controller summarizes an HTTP controller.
type Controller struct {
	MethodCount      int
	Coverage         ResourceCoverage
	MiddlewareCount  int
	UsesFormRequests bool
}

func (s Controller) Fields() map[string]any {
	return map[string]any{
		"type":                     "controller",
		"is_controller":            true,
		"method_count":             s.MethodCount,
		"resource_controller_type": optional(string(s.Coverage)),
		"middleware_count":         s.MiddlewareCount,
		"uses_form_requests":       s.UsesFormRequests,
	}
}

// Authorization classifies the body of a form request's authorize method.
type Authorization string

const (
	NotImplemented    Authorization = "not_implemented"
	AlwaysTrue        Authorization = "always_true"
	AlwaysFalse       Authorization = "always_false"
	PolicyOrGateCheck Authorization = "policy_or_gate_check"
	CustomLogic       Authorization = "custom_logic"
)

// FormRequest summarizes a validating request class.
type FormRequest struct {
	RuleCount           int
	HasCustomMessages   bool
	HasCustomAttributes bool
	Authorization       Authorization
}

func (s FormRequest) Fields() map[string]any {
	return map[string]any{
		"type":                  "form_request",
		"is_form_request":       true,
		"rule_count":            s.RuleCount,
		"has_custom_messages":   s.HasCustomMessages,
		"has_custom_attributes": s.HasCustomAttributes,
		"authorization_logic":   string(s.Authorization),
	}
}

// Command summarizes an artisan console command. Name and Description are
// nil when the class does not declare them as string literals.
type Command struct {
	Name          *string
	Description   *string
	ArgumentCount int
	OptionCount   int
	HasHandle     bool
	Traits        []string
}

func (s Command) Fields() map[string]any {
	return map[string]any{
		"type":               "artisan_command",
		"is_artisan_command": true,
		"command_name":       deref(s.Name),
		"description":        deref(s.Description),
		"argument_count":     s.ArgumentCount,
		"option_count":       s.OptionCount,
		"has_handle_method":  s.HasHandle,
		"uses_traits":        List(s.Traits),
	}
}

// Enum summarizes an enum declaration.
type Enum struct {
	BackedType  string
	CaseCount   int
	MethodCount int
}

func (s Enum) Fields() map[string]any {
	out := map[string]any{
		"type":         "enum",
		"is_backed":    s.BackedType != "",
		"case_count":   s.CaseCount,
		"method_count": s.MethodCount,
	}
	if s.BackedType != "" {
		out["backed_type"] = s.BackedType
	}
	return out
}

// Event summarizes a domain event class.
type Event struct {
	Name                string
	PublicPropertyCount int
	PublicPropertyTypes []string
	Broadcastable       bool
	HasBroadcastOn      bool
	HasBroadcastWith    bool
	HasBroadcastAs      bool
	ConstructorDeps     []string
}

func (s Event) Fields() map[string]any {
	return map[string]any{
		"type":                      "event",
		"is_event":                  true,
		"name":                      s.Name,
		"public_properties_count":   s.PublicPropertyCount,
		"public_properties_types":   List(s.PublicPropertyTypes),
		"is_broadcastable":          s.Broadcastable,
		"has_broadcast_on_method":   s.HasBroadcastOn,
		"has_broadcast_with_method": s.HasBroadcastWith,
		"has_broadcast_as_method":   s.HasBroadcastAs,
		"constructor_deps":          List(s.ConstructorDeps),
	}
}

// QueueSettings holds the literal integer defaults of a queued class's
// tries, timeout and maxExceptions properties.
type QueueSettings struct {
	Tries         *int64
	Timeout       *int64
	MaxExceptions *int64
}

func (q QueueSettings) apply(out map[string]any) {
	if q.Tries != nil {
		out["tries"] = *q.Tries
	}
	if q.Timeout != nil {
		out["timeout"] = *q.Timeout
	}
	if q.MaxExceptions != nil {
		out["max_exceptions"] = *q.MaxExceptions
	}
}

// Job summarizes a queued job.
type Job struct {
	Name                string
	Implements          []string
	ConstructorDeps     []string
	PublicPropertyCount int
	HasHandle           bool
	HasFailed           bool
	HasDisplayName      bool
	HasTags             bool
	Queue               QueueSettings
}

func (s Job) Fields() map[string]any {
	out := map[string]any{
		"type":                    "job",
		"is_job":                  true,
		"name":                    s.Name,
		"implements":              List(s.Implements),
		"constructor_deps":        List(s.ConstructorDeps),
		"public_properties_count": s.PublicPropertyCount,
		"has_handle_method":       s.HasHandle,
		"has_failed_method":       s.HasFailed,
		"has_display_name_method": s.HasDisplayName,
		"has_tags_method":         s.HasTags,
	}
	s.Queue.apply(out)
	return out
}

// Listener summarizes an event listener. Queue settings are only reported
// for queued listeners.
type Listener struct {
	Name               string
	Events             []string
	Queued             bool
	ConstructorDeps    []string
	HasHandle          bool
	MultiHandleMethods []string
	Queue              QueueSettings
}

func (s Listener) Fields() map[string]any {
	out := map[string]any{
		"type":                     "listener",
		"is_listener":              true,
		"name":                     s.Name,
		"listens_to_events":        List(s.Events),
		"is_queued":                s.Queued,
		"constructor_deps":         List(s.ConstructorDeps),
		"has_handle_method":        s.HasHandle,
		"has_multi_handle_methods": len(s.MultiHandleMethods) > 0,
	}
	if len(s.MultiHandleMethods) > 0 {
		out["multi_handle_methods"] = List(s.MultiHandleMethods)
		out["multi_handle_methods_count"] = len(s.MultiHandleMethods)
	}
	if s.Queued {
		s.Queue.apply(out)
	}
	return out
}

// ResourceKind tells a single-model API resource from a collection.
type ResourceKind string

const (
	SingleResource     ResourceKind = "single_resource"
	CollectionResource ResourceKind = "collection_resource"
)

// Resource summarizes an API resource transformer. The attribute fields
// apply to single resources, Wraps to collections.
type Resource struct {
	Name              string
	Kind              ResourceKind
	AdditionalMethods int
	AttributeCount    int
	Relations         []string
	UsesConditionals  bool
	Wraps             string
}

func (s Resource) Fields() map[string]any {
	out := map[string]any{
		"type":                    "api_resource",
		"is_api_resource":         true,
		"name":                    s.Name,
		"resource_type":           string(s.Kind),
		"additional_method_count": s.AdditionalMethods,
	}
	switch {
	case s.Kind == SingleResource:
		out["attribute_count"] = s.AttributeCount
		out["included_relations"] = List(s.Relations)
		out["uses_conditionals"] = s.UsesConditionals
	case s.Kind == CollectionResource && s.Wraps != "":
		out["wraps_resource"] = s.Wraps
	}
	return out
}

// Migration operations and rollback actions.
const (
	CreateTable      = "create_table"
	ModifyTable      = "modify_table"
	DropTable        = "drop_table"
	UnknownOperation = "unknown"
)

// Migration summarizes a schema migration.
type Migration struct {
	Operation   string
	TableName   *string
	Columns     int
	ForeignKeys int
	Indexes     int
	Rollback    string
	Anonymous   bool
}

func (s Migration) Fields() map[string]any {
	return map[string]any{
		"type":               "migration",
		"operation":          s.Operation,
		"table_name":         deref(s.TableName),
		"columns_in_up":      s.Columns,
		"foreign_keys_in_up": s.ForeignKeys,
		"indexes_in_up":      s.Indexes,
		"rollback_action":    s.Rollback,
		"is_anonymous":       s.Anonymous,
	}
}

// List converts a string slice to the generic list form used by the
// encoders, never returning nil.
func List(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
