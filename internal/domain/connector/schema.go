package connector

// FieldKind is the input kind of a config field
type FieldKind string

const (
	FieldString   FieldKind = "string"
	FieldPassword FieldKind = "password"
	FieldNumber   FieldKind = "number"
	FieldBoolean  FieldKind = "boolean"
	FieldSelect   FieldKind = "select"
	FieldTextarea FieldKind = "textarea"
)

// Field describes one config key of a connector type
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	Default     any
	Options     []string
	Placeholder string
}

// Descriptor describes a connector type and its config schema
type Descriptor struct {
	Type        Type
	Name        string
	Icon        string
	Description string
	Fields      []Field
}

// registry is built once and never mutated; accessors hand out copies.
var registry = buildRegistry()

// Lookup returns the descriptor for t
func Lookup(t Type) (Descriptor, bool) {
	d, ok := registry[t]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Descriptors returns every descriptor in AllTypes order
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, t := range AllTypes() {
		out = append(out, registry[t].clone())
	}
	return out
}

func (d Descriptor) clone() Descriptor {
	fields := make([]Field, len(d.Fields))
	for i, f := range d.Fields {
		f.Options = append([]string(nil), f.Options...)
		fields[i] = f
	}
	d.Fields = fields
	return d
}

func str(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Kind: FieldString, Required: required}
}

func secret(name, label string, required bool) Field {
	return Field{Name: name, Label: label, Kind: FieldPassword, Required: required}
}

func buildRegistry() map[Type]Descriptor {
	descriptors := []Descriptor{
		{
			Type: TypeSAP, Name: "SAP", Icon: "🏢",
			Description: "Connect to SAP ERP, S/4HANA, or SAP Cloud",
			Fields: []Field{
				str("host", "SAP Host", true),
				str("client", "Client", true),
				str("username", "Username", true),
				secret("password", "Password", true),
				{Name: "system_number", Label: "System Number", Kind: FieldString, Default: "00"},
				{Name: "api_type", Label: "API Type", Kind: FieldSelect, Options: []string{"OData", "RFC", "BAPI", "IDoc"}, Default: "OData"},
			},
		},
		{
			Type: TypeSalesforce, Name: "Salesforce", Icon: "☁️",
			Description: "Connect to Salesforce CRM",
			Fields: []Field{
				{Name: "instance_url", Label: "Instance URL", Kind: FieldString, Required: true, Placeholder: "https://yourorg.salesforce.com"},
				str("client_id", "Client ID", true),
				secret("client_secret", "Client Secret", true),
				str("username", "Username", true),
				secret("password", "Password", true),
				secret("security_token", "Security Token", false),
			},
		},
		{
			Type: TypeDatabase, Name: "Database", Icon: "🗄️",
			Description: "Connect to SQL databases (PostgreSQL, MySQL, Oracle, SQL Server)",
			Fields: []Field{
				{Name: "db_type", Label: "Database Type", Kind: FieldSelect, Required: true, Options: []string{"PostgreSQL", "MySQL", "Oracle", "SQL Server", "SQLite"}},
				str("host", "Host", true),
				{Name: "port", Label: "Port", Kind: FieldNumber, Required: true},
				str("database", "Database Name", true),
				str("username", "Username", true),
				secret("password", "Password", true),
				{Name: "ssl", Label: "Use SSL", Kind: FieldBoolean, Default: false},
			},
		},
		{
			Type: TypeHTTP, Name: "HTTP/REST", Icon: "🌐",
			Description: "Connect to any REST API",
			Fields: []Field{
				{Name: "base_url", Label: "Base URL", Kind: FieldString, Required: true, Placeholder: "https://api.example.com"},
				{Name: "auth_type", Label: "Auth Type", Kind: FieldSelect, Options: []string{"None", "Basic", "Bearer Token", "API Key", "OAuth2"}, Default: "None"},
				str("username", "Username", false),
				secret("password", "Password", false),
				secret("api_key", "API Key", false),
				{Name: "api_key_header", Label: "API Key Header", Kind: FieldString, Default: "X-API-Key"},
				secret("bearer_token", "Bearer Token", false),
				{Name: "timeout", Label: "Timeout (seconds)", Kind: FieldNumber, Default: 30},
			},
		},
		{
			Type: TypeSOAP, Name: "SOAP", Icon: "📄",
			Description: "Connect to SOAP web services",
			Fields: []Field{
				str("wsdl_url", "WSDL URL", true),
				str("username", "Username", false),
				secret("password", "Password", false),
				{Name: "timeout", Label: "Timeout (seconds)", Kind: FieldNumber, Default: 30},
			},
		},
		{
			Type: TypeKafka, Name: "Apache Kafka", Icon: "📨",
			Description: "Connect to Kafka message broker",
			Fields: []Field{
				{Name: "bootstrap_servers", Label: "Bootstrap Servers", Kind: FieldString, Required: true, Placeholder: "localhost:9092"},
				{Name: "security_protocol", Label: "Security Protocol", Kind: FieldSelect, Options: []string{"PLAINTEXT", "SSL", "SASL_PLAINTEXT", "SASL_SSL"}, Default: "PLAINTEXT"},
				{Name: "sasl_mechanism", Label: "SASL Mechanism", Kind: FieldSelect, Options: []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"}},
				str("username", "Username", false),
				secret("password", "Password", false),
				str("group_id", "Consumer Group ID", false),
			},
		},
		{
			Type: TypeFTP, Name: "FTP/SFTP", Icon: "📁",
			Description: "Connect to FTP or SFTP servers",
			Fields: []Field{
				{Name: "protocol", Label: "Protocol", Kind: FieldSelect, Options: []string{"FTP", "SFTP"}, Default: "SFTP"},
				str("host", "Host", true),
				{Name: "port", Label: "Port", Kind: FieldNumber, Default: 22},
				str("username", "Username", true),
				secret("password", "Password", false),
				{Name: "private_key", Label: "Private Key (for SFTP)", Kind: FieldTextarea},
				{Name: "remote_path", Label: "Remote Path", Kind: FieldString, Default: "/"},
			},
		},
		{
			Type: TypeEmail, Name: "Email", Icon: "📧",
			Description: "Connect to email servers (SMTP/IMAP)",
			Fields: []Field{
				{Name: "protocol", Label: "Protocol", Kind: FieldSelect, Required: true, Options: []string{"SMTP", "IMAP"}},
				str("host", "Host", true),
				{Name: "port", Label: "Port", Kind: FieldNumber, Required: true},
				str("username", "Username", true),
				secret("password", "Password", true),
				{Name: "use_tls", Label: "Use TLS", Kind: FieldBoolean, Default: true},
			},
		},
		{
			Type: TypeS3, Name: "AWS S3", Icon: "🪣",
			Description: "Connect to Amazon S3 storage",
			Fields: []Field{
				str("access_key_id", "Access Key ID", true),
				secret("secret_access_key", "Secret Access Key", true),
				{Name: "region", Label: "Region", Kind: FieldString, Default: "us-east-1"},
				str("bucket", "Default Bucket", false),
			},
		},
		{
			Type: TypeAzureBlob, Name: "Azure Blob Storage", Icon: "☁️",
			Description: "Connect to Azure Blob Storage",
			Fields: []Field{
				secret("connection_string", "Connection String", true),
				str("container", "Default Container", false),
			},
		},
	}

	reg := make(map[Type]Descriptor, len(descriptors))
	for _, d := range descriptors {
		reg[d.Type] = d
	}
	return reg
}
