// Package printing renders shipping documents.
//
// TemplateEngine turns receipt and waybill data into standalone HTML pages
// from embedded templates. ChromedpRenderer prints those pages to A4 PDF
// through a headless Chrome, either launched locally or reached over the
// DevTools protocol at a remote URL.
package printing
