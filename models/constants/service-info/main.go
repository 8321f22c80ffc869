package serviceInfo

const (
	SERVICE_ID          = "ca.c3g.locus"
	SERVICE_NAME        = "Locus"
	SERVICE_ARTIFACT    = "locus"
	SERVICE_TYPE_NO_VER = "ca.c3g:locus"
	SERVICE_DESCRIPTION = "Variant query service over an indexed VCF file."
	SERVICE_WELCOME     = "Welcome to Locus! This is a variant query service over a tabix-indexed VCF file."
)
