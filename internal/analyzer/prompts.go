package analyzer

const summarySystemPrompt = `You are an expert video content analyst. You write clear, well organized summaries of video transcripts and you always respect the requested word count.`

// %[1]d min words, %[2]d max words, %[3]s transcript
const summaryPrompt = `Write a comprehensive summary of the following video transcript.

Length requirement: between %[1]d and %[2]d words. Do not go below %[1]d words and do not exceed %[2]d words.

Cover the main topic, the key points in the order they are discussed, important examples or data, and the overall conclusion. Write flowing paragraphs in plain prose without headings or bullet points.

Transcript:
%[3]s

Summary (%[1]d-%[2]d words):`

// %[1]d current words, %[2]d min, %[3]d max, %[4]s current summary, %[5]s transcript
const expandSummaryPrompt = `The summary below is only %[1]d words long. Expand it to between %[2]d and %[3]d words.

Add detail from the transcript: elaborate on the key points, include concrete examples, and explain how the ideas connect. Keep the same plain prose style.

Current summary:
%[4]s

Transcript for reference:
%[5]s

Expanded summary (%[2]d-%[3]d words):`

const themesSystemPrompt = `You extract the main themes of a video. You answer with a bare comma-separated list and nothing else.`

// %[1]s theme count range, %[2]s transcript
const themesPrompt = `Identify %[1]s main themes discussed in this video transcript.

Answer with ONLY a comma-separated list of short theme labels (2-5 words each). No numbering, no introduction, no explanations.

Example answer: Machine Learning Basics, Data Privacy, Future of Work

Transcript:
%[2]s

Themes:`

const breakdownSystemPrompt = `You analyze the structure of videos. You follow output format instructions exactly.`

// %[1]s opening excerpt, %[2]s middle excerpt, %[3]s closing excerpt
const structuredBreakdownPrompt = `Describe how this video is structured, using the three transcript excerpts below.

Return ONLY a JSON object with exactly these keys and no other text:
{"introduction": "...", "main_content": "...", "conclusion": "..."}

- introduction: 2-3 complete sentences on how the video opens and what it sets up.
- main_content: 3-4 complete sentences on the core discussion.
- conclusion: 2-3 complete sentences on how the video wraps up.

Opening excerpt:
%[1]s

Middle excerpt:
%[2]s

Closing excerpt:
%[3]s

JSON:`

// %s opening excerpt
const introProsePrompt = `In 2-3 complete sentences, describe how this video begins and what topic it introduces. Answer in plain prose, no JSON, no lists.

Opening of the transcript:
%s`

// %s middle excerpt
const mainProsePrompt = `In 3-4 complete sentences, describe the main content and key points discussed in this part of the video. Answer in plain prose, no JSON, no lists.

Middle of the transcript:
%s`

// %s closing excerpt
const conclusionProsePrompt = `In 2-3 complete sentences, describe how this video concludes and its final takeaways. Answer in plain prose, no JSON, no lists.

End of the transcript:
%s`
