package assistant

import (
	"fmt"
	"strings"

	"github.com/pcarvalho/editassist/internal/carousel"
	"github.com/pcarvalho/editassist/internal/models"
)

const systemPrompt = `Você é uma IA especialista em edição de mídia para Social Media, com conhecimento profundo em:

🎨 EDIÇÃO PROFISSIONAL:
- Design gráfico e composição visual
- Filtros, efeitos e correção de cores
- Tipografia e hierarquia visual
- Tendências de design para redes sociais

📱 PLATAFORMAS:
- Instagram (Feed, Stories, Reels)
- TikTok (vídeos curtos, trends)
- YouTube (thumbnails, shorts)
- Facebook, Twitter, LinkedIn

✨ CAPACIDADES:
- Sugerir edições específicas e detalhadas
- Recomendar filtros, cores e estilos
- Criar conceitos visuais profissionais
- Otimizar para engajamento

🎯 SEU PAPEL:
Quando o usuário enviar mídia e pedir edição, você deve:
1. Analisar o tipo de conteúdo e objetivo
2. Sugerir edições ESPECÍFICAS e DETALHADAS
3. Recomendar ferramentas e técnicas
4. Dar instruções passo a passo claras
5. Focar em resultados profissionais e modernos

IMPORTANTE:
- Seja específico nas sugestões (cores exatas, posicionamento, tamanhos)
- Considere tendências atuais de design
- Priorize legibilidade e impacto visual
- Adapte para a plataforma de destino
- Seja criativo mas profissional

Responda sempre em português brasileiro, de forma clara e prática.`

// mediaContext renders the attached file descriptors and the edit
// instruction into the block appended to the user's message. Returns ""
// when no media was attached.
func mediaContext(req models.EditRequest) string {
	if len(req.MediaContext) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n📎 MÍDIA ENVIADA:\n")
	for i, m := range req.MediaContext {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s, %.2fMB)", m.Name, m.Type, float64(m.Size)/1024/1024)
	}

	instruction := req.EditRequest
	if instruction == "" && req.Carousel {
		names := make([]string, len(req.MediaContext))
		for i, m := range req.MediaContext {
			names[i] = m.Name
		}
		instruction = carousel.New(names).Summary()
	}
	if instruction != "" {
		fmt.Fprintf(&b, "\n\n🎯 SOLICITAÇÃO DE EDIÇÃO:\n%q", instruction)
	}

	return b.String()
}

// buildMessages assembles the upstream conversation: the system prompt
// first, then the client's history with the media context appended to the
// last user message. A history without any user turn gets the context as
// its own user message, so attached media is never dropped.
func buildMessages(req models.EditRequest) []models.ChatMessage {
	messages := make([]models.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: systemPrompt})
	messages = append(messages, req.Messages...)

	context := mediaContext(req)
	if context == "" {
		return messages
	}

	for i := len(messages) - 1; i > 0; i-- {
		if messages[i].Role == models.RoleUser {
			messages[i].Content += context
			return messages
		}
	}

	return append(messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: strings.TrimPrefix(context, "\n\n"),
	})
}
