// SPDX-License-Identifier: MPL-2.0

package i18n

// Message IDs. Every ID has an entry in each active.*.toml catalog.
const (
	MsgScanStart        = "export.scan_start"
	MsgScanVendor       = "export.scan_vendor"
	MsgExistingKeys     = "export.existing_keys"
	MsgMarkerKeys       = "export.marker_keys"
	MsgVendorKeys       = "export.vendor_keys"
	MsgNoMarkers        = "export.no_markers"
	MsgNoVendorKeys     = "export.no_vendor_keys"
	MsgNothingToAdd     = "export.nothing_to_add"
	MsgNewKeysHeader    = "export.new_keys_header"
	MsgNewKeyLine       = "export.new_key_line"
	MsgMergeSummary     = "export.merge_summary"
	MsgExportDryRun     = "export.dry_run"
	MsgExportedTo       = "export.exported_to"
	MsgPasteHint        = "export.paste_hint"
	MsgUpdatedConfig    = "export.updated_config"
	MsgAnchorNotFound   = "export.anchor_not_found"
	MsgGenerateStart    = "generate.start"
	MsgSourceExists     = "generate.source_exists"
	MsgNoLocaleDirs     = "generate.no_locale_dirs"
	MsgReferenceMissing = "generate.reference_missing"
	MsgGenerating       = "generate.generating"
	MsgNoFiles          = "generate.no_files"
	MsgFileGenerated    = "generate.file_generated"
	MsgFileFailed       = "generate.file_failed"
	MsgNoPackages       = "generate.no_packages"
	MsgGenerateDryRun   = "generate.dry_run"
	MsgGenerateSummary  = "generate.summary"
	MsgWarning          = "diag.warning"
	MsgError            = "diag.error"
)
