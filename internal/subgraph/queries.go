package subgraph

const getBetQuery = `
query GetBet($id: ID!) {
  bet(id: $id) {
    id
    transactionHash
    outcomeIndex
    amount
    shares
    bettor {
      id
    }
    question {
      id
      metadata {
        title
        outcomes
      }
      resolution {
        payouts
      }
    }
  }
}`

const getMarketParticipantQuery = `
query GetMarketParticipant($id: ID!) {
  marketParticipant(id: $id) {
    id
    totalPayout
  }
}`

const getDailyAgentPerformancesQuery = `
query GetDailyAgentPerformances($agentIds: [Int!]!, $timestamp_gt: Int!, $timestamp_lt: Int!) {
  dailyAgentPerformances(
    where: { agentId_in: $agentIds, dayTimestamp_gt: $timestamp_gt, dayTimestamp_lt: $timestamp_lt }
    orderBy: dayTimestamp
    orderDirection: asc
    first: 1000
  ) {
    dayTimestamp
    activeMultisigCount
  }
}`
