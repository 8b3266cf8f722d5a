package types

import (
	"strconv"
	"strings"

	"github.com/wippyai/marshalgen/errmode"
)

// Dialect is the vocabulary of the runtime the generated code compiles
// against: support types, status constants and buffer method names. The
// defaults target the HIDL parcel runtime.
type Dialect struct {
	Prefix       string `mapstructure:"prefix"`
	ErrVar       string `mapstructure:"err_var"`
	OK           string `mapstructure:"ok"`
	UnknownError string `mapstructure:"unknown_error"`
	BadType      string `mapstructure:"bad_type"`
	ErrorLabel   string `mapstructure:"error_label"`

	StatusType     string `mapstructure:"status_type"`
	ParcelType     string `mapstructure:"parcel_type"`
	StringType     string `mapstructure:"string_type"`
	VectorTemplate string `mapstructure:"vector_template"`
	StrongPointer  string `mapstructure:"strong_pointer"`
	BinderType     string `mapstructure:"binder_type"`

	ReadBuffer          string `mapstructure:"read_buffer"`
	WriteBuffer         string `mapstructure:"write_buffer"`
	ReadEmbedded        string `mapstructure:"read_embedded"`
	WriteEmbedded       string `mapstructure:"write_embedded"`
	ReadBinder          string `mapstructure:"read_binder"`
	WriteBinder         string `mapstructure:"write_binder"`
	ReadEmbeddedBinder  string `mapstructure:"read_embedded_binder"`
	WriteEmbeddedBinder string `mapstructure:"write_embedded_binder"`

	WriteToken         string `mapstructure:"write_token"`
	EnforceToken       string `mapstructure:"enforce_token"`
	Transact           string `mapstructure:"transact"`
	OnewayFlag         string `mapstructure:"oneway_flag"`
	UnknownTransaction string `mapstructure:"unknown_transaction"`
}

// DefaultDialect returns the HIDL parcel vocabulary.
func DefaultDialect() *Dialect {
	return &Dialect{
		Prefix:       "_hidl_",
		ErrVar:       "_hidl_err",
		OK:           "::android::OK",
		UnknownError: "::android::UNKNOWN_ERROR",
		BadType:      "::android::BAD_TYPE",
		ErrorLabel:   "_hidl_error",

		StatusType:     "::android::status_t",
		ParcelType:     "::android::hardware::Parcel",
		StringType:     "::android::hardware::hidl_string",
		VectorTemplate: "::android::hardware::hidl_vec",
		StrongPointer:  "::android::sp",
		BinderType:     "::android::hardware::IBinder",

		ReadBuffer:          "readBuffer",
		WriteBuffer:         "writeBuffer",
		ReadEmbedded:        "readEmbeddedFromParcel",
		WriteEmbedded:       "writeEmbeddedToParcel",
		ReadBinder:          "readNullableStrongBinder",
		WriteBinder:         "writeStrongBinder",
		ReadEmbeddedBinder:  "readNullableEmbeddedStrongBinder",
		WriteEmbeddedBinder: "writeEmbeddedStrongBinder",

		WriteToken:         "writeInterfaceToken",
		EnforceToken:       "enforceInterface",
		Transact:           "transact",
		OnewayFlag:         "::android::hardware::IBinder::FLAG_ONEWAY",
		UnknownTransaction: "::android::UNKNOWN_TRANSACTION",
	}
}

// Vocabulary returns the identifiers error-mode statements refer to.
func (d *Dialect) Vocabulary() errmode.Vocabulary {
	return errmode.Vocabulary{
		ErrVar: d.ErrVar,
		OK:     d.OK,
		Label:  d.ErrorLabel,
	}
}

// Ident builds a generated identifier from an arbitrary expression, e.g.
// "entries[_hidl_index_0].label" becomes "_hidl_entries_hidl_index_0_label".
// An expression that already starts with the prefix keeps a single copy.
// Distinct expressions can map to the same identifier; Site.Scope resolves
// those repeats.
func (d *Dialect) Ident(expr, suffix string) string {
	if d.Prefix != "" {
		expr = strings.TrimPrefix(expr, d.Prefix)
	}
	var b strings.Builder
	b.WriteString(d.Prefix)
	lastUnderscore := strings.HasSuffix(d.Prefix, "_")
	for _, r := range expr {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok || r == '_' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}
	out := strings.TrimRight(b.String(), "_")
	if suffix != "" {
		out += "_" + suffix
	}
	return out
}

// IndexVar names the loop counter at the given loop nesting depth.
func (d *Dialect) IndexVar(depth int) string {
	return d.Prefix + "index_" + strconv.Itoa(depth)
}

func (d *Dialect) binderVar() string {
	return d.Prefix + "binder"
}

// StrongPointerTo spells a strong reference to target.
func (d *Dialect) StrongPointerTo(target string) string {
	return d.StrongPointer + "<" + target + ">"
}
