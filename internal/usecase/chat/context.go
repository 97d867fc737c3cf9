package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
)

// systemPromptTemplate directs the generation step to prioritize the
// assembled context, disclose when an answer is not grounded in it, and
// fall back to general knowledge with a caveat. %[1]s is the organization
// name.
const systemPromptTemplate = "You are a world-class business and educational assistant, specifically tailored for the %[1]s team. " +
	"Your primary goal is to help %[1]s staff create high-quality materials, including sales scripts, " +
	"marketing collateral, lesson plans, and more.\n\n" +
	"To answer the user's request, synthesize information from the following sources: \n" +
	"1. The provided internal %[1]s documents (retrieved context below). \n" +
	"2. Any text extracted from the user's uploaded files (if provided).\n" +
	"3. Your general knowledge for broader context and information not available in the documents.\n\n" +
	"CRITICAL INSTRUCTIONS:\n" +
	"- Provide comprehensive, well-structured, and clear responses. Do not be overly brief.\n" +
	"- Use Markdown formatting (### Headers, - Bullet Points, and **bold text**) to improve readability, " +
	"and ensure outputs are easy to interpret.\n" +
	"- Prefer direct quotes and exact numbers from the CONTEXT when relevant.\n" +
	"- If the provided context doesn't contain a specific answer, clearly state that the information isn't " +
	"in %[1]s's documents. Then, provide the best possible answer based on your general knowledge, " +
	"while noting it may not be specific to %[1]s.\n\n"

// BuildGroundingContext joins snippets into one context block. With no
// snippets the summary (if any) stands alone; with snippets the summary is
// appended as one more entry. An empty result is valid: the prompt is still
// well-formed without retrieved material.
func BuildGroundingContext(snippets []string, summary string) string {
	clean := make([]string, 0, len(snippets)+1)
	for _, s := range snippets {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}

	if len(clean) == 0 {
		return summary
	}
	if summary != "" {
		clean = append(clean, summary)
	}

	return strings.Join(clean, "\n\n")
}

// buildSystemMessage embeds the grounding context between explicit markers,
// followed by the optional uploaded-files section.
func buildSystemMessage(orgName, groundingContext, uploadsContext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, systemPromptTemplate, orgName)
	sb.WriteString("CONTEXT BEGIN\n")
	sb.WriteString(groundingContext)
	sb.WriteString("\n\n")
	if uploadsContext != "" {
		sb.WriteString("UPLOADED FILES\n")
		sb.WriteString(uploadsContext)
		sb.WriteString("\n")
	}
	sb.WriteString("CONTEXT END")
	return sb.String()
}

// extractUploads turns attached files into labeled context sections. At
// most MaxFileCount files are processed and each contributes at most
// MaxFileChars characters of extracted text. Files that yield no text are
// skipped.
func (uc *Usecase) extractUploads(ctx context.Context, files []entity.FileData) string {
	if len(files) > uc.uploadCfg.MaxFileCount {
		files = files[:uc.uploadCfg.MaxFileCount]
	}

	var sections []string
	for _, file := range files {
		text := uc.extractor.Text(file.Filename, file.Content)
		if text == "" {
			ctxzap.Debug(ctx, "no text extracted from upload", zap.String("filename", file.Filename))
			continue
		}
		// Truncate on a rune boundary so a multi-byte character is never
		// split into invalid UTF-8.
		if runes := []rune(text); len(runes) > uc.uploadCfg.MaxFileChars {
			text = string(runes[:uc.uploadCfg.MaxFileChars])
		}
		sections = append(sections, fmt.Sprintf("File: %s\n%s", file.Filename, text))
	}

	return strings.Join(sections, "\n\n")
}

// buildMessages assembles the ordered message list: system first, history
// turns replayed verbatim, current question last.
func buildMessages(systemPrompt string, history []entity.ChatTurn, question string) []entity.ModelMessage {
	messages := make([]entity.ModelMessage, 0, len(history)+2)

	messages = append(messages, entity.ModelMessage{
		Role:    entity.RoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range history {
		role := entity.RoleAssistant
		if turn.Role == entity.RoleUser {
			role = entity.RoleUser
		}
		messages = append(messages, entity.ModelMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	messages = append(messages, entity.ModelMessage{
		Role:    entity.RoleUser,
		Content: question,
	})

	return messages
}
