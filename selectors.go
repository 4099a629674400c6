package docgrab

// Selector inventories probed during a run, in priority order. Content
// hosts rename these classes regularly; every lookup built on them is
// best-effort.

// downloadSelectors locate a native download control.
var downloadSelectors = []string{
	`button[data-testid="download-button"]`,
	`.download_button`,
	`[aria-label*="download"]`,
	`.btn-download`,
	`#download-btn`,
}

// pageSelectors locate rendered document pages inside the viewer. The
// first selector with at least one match wins for the whole run.
var pageSelectors = []string{
	`.page`,
	`.document_page`,
	`[data-page]`,
	`.text_layer`,
	`.page-container`,
	`.document-page`,
}

// textSelectors locate the text regions of the viewer. The first selector
// that yields any non-empty text wins.
var textSelectors = []string{
	`.text_layer`,
	`.page_text`,
	`.document_content`,
	`.content-text`,
	`.document-text`,
	`.text`,
	`p`,
}

// titleSelectors locate the document title, tried before document.title.
var titleSelectors = []string{
	`h1.document_title`,
	`.document-title`,
	`h1`,
}
