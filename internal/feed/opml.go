package feed

import "encoding/xml"

type opmlDoc struct {
	XMLName  xml.Name      `xml:"opml"`
	Outlines []opmlOutline `xml:"body>outline"`
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr"`
	XMLURL   string        `xml:"xmlUrl,attr"`
	Outlines []opmlOutline `xml:"outline"`
}

// parseOPML decodes an OPML subscription list into feed URL → title,
// flattening nested folders. A non-OPML document fails on the root
// element, which is how ListSource sniffs the format.
func parseOPML(body []byte) (map[string]string, error) {
	var doc opmlDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	feeds := make(map[string]string)
	var walk func([]opmlOutline)
	walk = func(outlines []opmlOutline) {
		for _, o := range outlines {
			if o.XMLURL != "" {
				title := o.Title
				if title == "" {
					title = o.Text
				}
				feeds[o.XMLURL] = title
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Outlines)
	return feeds, nil
}
