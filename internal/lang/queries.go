package lang

// Every query below follows the capture-name contract: @def.func / @def.class
// mark the definition node, @name its identifier; @ref.call marks a call
// expression, @callee its (possibly member-access) callee identifier.

const goQuery = `
(function_declaration
  name: (identifier) @name) @def.func

(method_declaration
  name: (field_identifier) @name) @def.func

(type_declaration
  (type_spec
    name: (type_identifier) @name
    type: (struct_type))) @def.class

(call_expression
  function: (identifier) @callee) @ref.call

(call_expression
  function: (selector_expression
    field: (field_identifier) @callee)) @ref.call
`

const pythonQuery = `
(function_definition
  name: (identifier) @name) @def.func

(class_definition
  name: (identifier) @name) @def.class

(call
  function: (identifier) @callee) @ref.call

(call
  function: (attribute
    attribute: (identifier) @callee)) @ref.call
`

const javascriptQuery = `
(function_declaration
  name: (identifier) @name) @def.func

(class_declaration
  name: (identifier) @name) @def.class

(method_definition
  name: (property_identifier) @name) @def.func

(call_expression
  function: (identifier) @callee) @ref.call

(call_expression
  function: (member_expression
    property: (property_identifier) @callee)) @ref.call
`

const typescriptQuery = `
(function_declaration
  name: (identifier) @name) @def.func

(class_declaration
  name: (type_identifier) @name) @def.class

(interface_declaration
  name: (type_identifier) @name) @def.class

(method_definition
  name: (property_identifier) @name) @def.func

(call_expression
  function: (identifier) @callee) @ref.call

(call_expression
  function: (member_expression
    property: (property_identifier) @callee)) @ref.call
`

const rustQuery = `
(function_item
  name: (identifier) @name) @def.func

(struct_item
  name: (type_identifier) @name) @def.class

(trait_item
  name: (type_identifier) @name) @def.class

(call_expression
  function: (identifier) @callee) @ref.call

(call_expression
  function: (field_expression
    field: (field_identifier) @callee)) @ref.call
`

const javaQuery = `
(method_declaration
  name: (identifier) @name) @def.func

(class_declaration
  name: (identifier) @name) @def.class

(interface_declaration
  name: (identifier) @name) @def.class

(method_invocation
  name: (identifier) @callee) @ref.call
`

const cQuery = `
(function_definition
  declarator: (function_declarator
    declarator: (identifier) @name)) @def.func

(struct_specifier
  name: (type_identifier) @name) @def.class

(call_expression
  function: (identifier) @callee) @ref.call
`

const cppQuery = `
(function_definition
  declarator: (function_declarator
    declarator: (identifier) @name)) @def.func

(function_definition
  declarator: (function_declarator
    declarator: (field_identifier) @name)) @def.func

(class_specifier
  name: (type_identifier) @name) @def.class

(struct_specifier
  name: (type_identifier) @name) @def.class

(namespace_definition
  name: (namespace_identifier) @name) @def.class

(call_expression
  function: (identifier) @callee) @ref.call

(call_expression
  function: (field_expression
    field: (field_identifier) @callee)) @ref.call
`
