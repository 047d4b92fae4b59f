package gemini

// ReplyStyleInstruction shapes every reply for a chat window. The persona comes
// from the system message at the start of each conversation.
const ReplyStyleInstruction = `You are replying inside a mobile chat app.

- Write in plain conversational text. Do not use markdown headings, tables or code blocks.
- Keep replies short: a few sentences, at most two short paragraphs.
- Ask at most one question per reply.
- If the user mentions self-harm or suicide, respond with warmth, take it seriously, and encourage them to contact local emergency services or a crisis line right away.`
