package metadata

// Accessibility is the declared visibility of a type or member, stored in its
// C# keyword form.
type Accessibility string

const (
	Public            Accessibility = "public"
	Private           Accessibility = "private"
	Protected         Accessibility = "protected"
	Internal          Accessibility = "internal"
	ProtectedInternal Accessibility = "protected internal"
	PrivateProtected  Accessibility = "private protected"
)

// Keyword returns the lowercase keyword used in rendered signatures.
func (a Accessibility) Keyword() string {
	if a == "" {
		return string(Private)
	}
	return string(a)
}

// Valid reports whether a is one of the known accessibility levels.
func (a Accessibility) Valid() bool {
	switch a {
	case Public, Private, Protected, Internal, ProtectedInternal, PrivateProtected:
		return true
	}
	return false
}

// TypeKind distinguishes the shapes a type definition can take.
type TypeKind string

const (
	Class     TypeKind = "class"
	Struct    TypeKind = "struct"
	Interface TypeKind = "interface"
	Enum      TypeKind = "enum"
	Delegate  TypeKind = "delegate"
)

// Assembly is the type-system view of one library.
type Assembly struct {
	Name  string     `json:"name" yaml:"name"`
	Types []TypeView `json:"types" yaml:"types"`
}

// TypeView is a resolved type definition. Member slices are in declaration
// order; inherited members follow the declared ones and keep the name of the
// type that declares them.
type TypeView struct {
	FullName     string        `json:"fullName" yaml:"fullName"`
	Name         string        `json:"name" yaml:"name"`
	Access       Accessibility `json:"access" yaml:"access"`
	Kind         TypeKind      `json:"kind" yaml:"kind"`
	BaseType     string        `json:"baseType,omitempty" yaml:"baseType,omitempty"`
	Constructors []Constructor `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Methods      []Method      `json:"methods,omitempty" yaml:"methods,omitempty"`
	Properties   []Property    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Fields       []Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsPublic reports whether the type is visible outside its assembly.
func (t *TypeView) IsPublic() bool { return t.Access == Public }

// IsEnum reports whether t is an enumeration.
func (t *TypeView) IsEnum() bool { return t.Kind == Enum }

// Declares reports whether m was declared on t rather than inherited.
func (t *TypeView) Declares(m MemberInfo) bool {
	return m.DeclaringType == "" || m.DeclaringType == t.FullName
}

// MemberInfo holds what every member kind shares.
type MemberInfo struct {
	Name          string        `json:"name" yaml:"name"`
	Access        Accessibility `json:"access" yaml:"access"`
	Static        bool          `json:"static,omitempty" yaml:"static,omitempty"`
	DeclaringType string        `json:"declaringType,omitempty" yaml:"declaringType,omitempty"`
}

// Info returns the shared member data.
func (m MemberInfo) Info() MemberInfo { return m }

// Member is implemented by Constructor, Method, Property and Field.
type Member interface {
	Info() MemberInfo
}

// Constructor is an instance or static (type) initializer.
type Constructor struct {
	MemberInfo `yaml:",inline"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Method is an ordinary method, operator or accessor-free function member.
type Method struct {
	MemberInfo `yaml:",inline"`
	ReturnType TypeRef     `json:"returnType" yaml:"returnType"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Property is a property or indexer. Getter and Setter are nil when the
// accessor does not exist.
type Property struct {
	MemberInfo `yaml:",inline"`
	Type       TypeRef   `json:"type" yaml:"type"`
	Getter     *Accessor `json:"getter,omitempty" yaml:"getter,omitempty"`
	Setter     *Accessor `json:"setter,omitempty" yaml:"setter,omitempty"`
}

// Accessor is a property getter or setter.
type Accessor struct {
	Access Accessibility `json:"access" yaml:"access"`
}

// Field is a field definition; enum members are public static const fields.
type Field struct {
	MemberInfo `yaml:",inline"`
	Type       TypeRef   `json:"type" yaml:"type"`
	Const      bool      `json:"const,omitempty" yaml:"const,omitempty"`
	Value      *Constant `json:"value,omitempty" yaml:"value,omitempty"`
}

// Parameter is one formal parameter of a method or constructor.
type Parameter struct {
	Name     string    `json:"name" yaml:"name"`
	Type     TypeRef   `json:"type" yaml:"type"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	Default  *Constant `json:"default,omitempty" yaml:"default,omitempty"`
}

// TypeRef is a reference to a type as it appears in a signature. Element is
// set for arrays, in which case Rank is the number of dimensions.
type TypeRef struct {
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	FullName  string    `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Arguments []TypeRef `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Element   *TypeRef  `json:"element,omitempty" yaml:"element,omitempty"`
	Rank      int       `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// ConstKind tags the value held by a Constant.
type ConstKind string

const (
	ConstNull   ConstKind = "null"
	ConstBool   ConstKind = "bool"
	ConstChar   ConstKind = "char"
	ConstString ConstKind = "string"
	ConstInt    ConstKind = "int"
	ConstUint   ConstKind = "uint"
	ConstFloat  ConstKind = "float"
	ConstEnum   ConstKind = "enum"
)

// Constant is a compile-time constant in its natural textual form.
type Constant struct {
	Kind  ConstKind `json:"kind" yaml:"kind"`
	Value string    `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsNull reports whether c carries no value.
func (c *Constant) IsNull() bool {
	return c == nil || c.Kind == ConstNull || c.Kind == ""
}
