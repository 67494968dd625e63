package swf

import "strconv"

// Signature is the three-byte magic at the start of a container.
type Signature string

const (
	SignatureFWS Signature = "FWS" // uncompressed
	SignatureCWS Signature = "CWS" // zlib body
	SignatureZWS Signature = "ZWS" // lzma body
)

// Compression returns the body compression a signature selects.
func (s Signature) Compression() (Compression, bool) {
	switch s {
	case SignatureFWS:
		return CompressionNone, true
	case SignatureCWS:
		return CompressionZlib, true
	case SignatureZWS:
		return CompressionLZMA, true
	}
	return 0, false
}

// Compression is the whole-body compression scheme of a container.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZlib
	CompressionLZMA
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLZMA:
		return "lzma"
	default:
		return "compression(" + strconv.Itoa(int(c)) + ")"
	}
}

// TagCode identifies a tag record.
type TagCode uint16

// Tag codes with a name. Only the bytecode tags are decoded.
const (
	TagEnd                          TagCode = 0
	TagShowFrame                    TagCode = 1
	TagDefineShape                  TagCode = 2
	TagSetBackgroundColor           TagCode = 9
	TagDefineText                   TagCode = 11
	TagDoAction                     TagCode = 12
	TagDefineSound                  TagCode = 14
	TagDefineBitsLossless           TagCode = 20
	TagDefineBitsJPEG2              TagCode = 21
	TagPlaceObject2                 TagCode = 26
	TagRemoveObject2                TagCode = 28
	TagDefineEditText               TagCode = 37
	TagDefineSprite                 TagCode = 39
	TagFrameLabel                   TagCode = 43
	TagExportAssets                 TagCode = 56
	TagEnableDebugger2              TagCode = 64
	TagScriptLimits                 TagCode = 65
	TagFileAttributes               TagCode = 69
	TagPlaceObject3                 TagCode = 70
	TagDoABCDefine                  TagCode = 72
	TagDefineFont3                  TagCode = 75
	TagSymbolClass                  TagCode = 76
	TagMetadata                     TagCode = 77
	TagDoABC                        TagCode = 82
	TagDefineShape4                 TagCode = 83
	TagDefineSceneAndFrameLabelData TagCode = 86
	TagDefineBinaryData             TagCode = 87
	TagDefineFontName               TagCode = 88
	TagEnableTelemetry              TagCode = 93
)

var tagNames = map[TagCode]string{
	TagEnd:                          "End",
	TagShowFrame:                    "ShowFrame",
	TagDefineShape:                  "DefineShape",
	TagSetBackgroundColor:           "SetBackgroundColor",
	TagDefineText:                   "DefineText",
	TagDoAction:                     "DoAction",
	TagDefineSound:                  "DefineSound",
	TagDefineBitsLossless:           "DefineBitsLossless",
	TagDefineBitsJPEG2:              "DefineBitsJPEG2",
	TagPlaceObject2:                 "PlaceObject2",
	TagRemoveObject2:                "RemoveObject2",
	TagDefineEditText:               "DefineEditText",
	TagDefineSprite:                 "DefineSprite",
	TagFrameLabel:                   "FrameLabel",
	TagExportAssets:                 "ExportAssets",
	TagEnableDebugger2:              "EnableDebugger2",
	TagScriptLimits:                 "ScriptLimits",
	TagFileAttributes:               "FileAttributes",
	TagPlaceObject3:                 "PlaceObject3",
	TagDoABCDefine:                  "DoABCDefine",
	TagDefineFont3:                  "DefineFont3",
	TagSymbolClass:                  "SymbolClass",
	TagMetadata:                     "Metadata",
	TagDoABC:                        "DoABC",
	TagDefineShape4:                 "DefineShape4",
	TagDefineSceneAndFrameLabelData: "DefineSceneAndFrameLabelData",
	TagDefineBinaryData:             "DefineBinaryData",
	TagDefineFontName:               "DefineFontName",
	TagEnableTelemetry:              "EnableTelemetry",
}

func (c TagCode) String() string {
	if name, ok := tagNames[c]; ok {
		return name
	}
	return "Tag(" + strconv.Itoa(int(c)) + ")"
}

// DoABC flag bits.
const (
	DoABCLazyInitialize uint32 = 1
)
