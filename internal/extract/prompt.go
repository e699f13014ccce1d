package extract

// extractionPrompt instructs the model to transcribe the document
// verbatim with a strict page-marker output contract that the parser
// splits on.
const extractionPrompt = `Extract ALL text from this PDF document exactly as it appears.

Rules:
- Transcribe verbatim. Do not summarize, rephrase, translate, or correct anything.
- Preserve the original line breaks, list markers, and reading order.
- Include headers, footers, page numbers, and captions.
- Do not add any commentary of your own.

Output format (strict):
- Begin each page with a line "PAGE N:" where N is the page number.
- End each page with a line containing only "---PAGE_BREAK---".

Example:
PAGE 1:
<text of page 1>
---PAGE_BREAK---
PAGE 2:
<text of page 2>
---PAGE_BREAK---`
