package ui

import (
	"html/template"
	"net/http"

	"exoml/domain/sample"
	"exoml/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// TooltipHTML renders a criterion's measurement summary to HTML
func TooltipHTML(c sample.Criterion, d sample.Measurements) template.HTML {
	md := sample.TooltipMarkdown(c, d)
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

func (s *Server) handleTooltip(c *gin.Context) {
	crit, err := sample.ParseCriterion(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	smp := currentSession(c).Controller.State().Sample
	s.renderTemplate(c, http.StatusOK, fragments.Tooltip, gin.H{
		"Key":   crit.String(),
		"Label": crit.Label(),
		"Body":  TooltipHTML(crit, smp.Data),
	})
}
